package export

import (
	"archive/zip"
	"io"

	"skillmap-backend/domain/core/aggregates"
	pkgerrors "skillmap-backend/pkg/errors"
)

// WriteZip serializes a graph as a zip archive of markdown notes, one
// <node-id>.md file per node. File bodies are the literal node content with
// no rewriting, so wiki-style links between notes survive round trips into
// external tooling.
func WriteZip(w io.Writer, graph *aggregates.SkillGraph) error {
	if graph == nil {
		return pkgerrors.NewValidationError("graph cannot be nil")
	}

	archive := zip.NewWriter(w)
	for _, node := range graph.Nodes() {
		entry, err := archive.Create(node.ID() + ".md")
		if err != nil {
			return pkgerrors.Wrap(err, "failed to create archive entry")
		}
		if _, err := entry.Write([]byte(node.Content())); err != nil {
			return pkgerrors.Wrap(err, "failed to write archive entry")
		}
	}
	return archive.Close()
}
