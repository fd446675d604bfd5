package templates

import (
	"fmt"
	"strings"
)

// DefaultTemplateName is the template set used when --template is not specified.
const DefaultTemplateName = "default"

// TemplateSet names a subset of manifest categories.
type TemplateSet struct {
	Name        string
	Description string
	Default     bool
}

var templateSets = map[string]TemplateSet{
	"minimal": {
		Name:        "minimal",
		Description: "Backend API only",
	},
	"default": {
		Name:        "default",
		Description: "Backend API and Next.js dashboard",
		Default:     true,
	},
	"full": {
		Name:        "full",
		Description: "Backend, dashboard and Docker deployment files",
	},
}

var setOrder = []string{"minimal", "default", "full"}

// Get returns a template set by name.
func Get(name string) (TemplateSet, error) {
	t, ok := templateSets[name]
	if !ok {
		return TemplateSet{}, fmt.Errorf("unknown template %q; valid templates: %s", name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// List returns all template sets, smallest first.
func List() []TemplateSet {
	out := make([]TemplateSet, 0, len(setOrder))
	for _, n := range setOrder {
		out = append(out, templateSets[n])
	}
	return out
}

// Names returns all template set names.
func Names() []string {
	return append([]string(nil), setOrder...)
}

// Skeleton is the directory layout created for a new project before any
// file is copied.
var Skeleton = []string{
	"backend",
	"backend/api",
	"backend/api/routes",
	"backend/api/models",
	"backend/api/schemas",
	"backend/api/services",
	"backend/core",
	"backend/core/database",
	"backend/core/config",
	"backend/utils",
	"frontend",
	"frontend/src",
	"frontend/src/app",
	"frontend/src/components",
	"frontend/src/components/ui",
	"frontend/src/components/auth",
	"frontend/src/contexts",
	"frontend/src/lib",
	"frontend/src/pages",
	"frontend/src/utils",
	"frontend/public",
	"data",
	"docker",
	"scripts",
	"tests",
}

// SetupSkeleton is the smaller layout used when setting up an existing
// directory.
var SetupSkeleton = []string{
	"backend",
	"backend/api",
	"backend/core",
	"backend/data",
	"frontend",
	"frontend/src",
	"data",
}
