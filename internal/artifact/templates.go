package artifact

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templatesFS embed.FS

// Templates returns the mail templates and layouts shipped with the binary.
// Layouts live under layouts/.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
