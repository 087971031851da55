// Package requirements checks the modules the client binds to against
// minimum versions before anything else is constructed.
package requirements

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

type Binding struct {
	Name       string
	Module     string
	MinVersion string
}

func (b Binding) String() string {
	return fmt.Sprintf("%s (%s >= %s)", b.Name, b.Module, b.MinVersion)
}

// Declared lists the bindings the client needs at runtime.
func Declared() []Binding {
	return []Binding{
		{Name: "Toolkit", Module: "fyne.io/fyne/v2", MinVersion: "v2.6.0"},
		{Name: "Logging", Module: "github.com/rs/zerolog", MinVersion: "v1.30.0"},
		{Name: "Templates", Module: "gopkg.in/yaml.v3", MinVersion: "v3.0.0"},
		{Name: "Text", Module: "golang.org/x/text", MinVersion: "v0.20.0"},
	}
}

// Resolver reports the version of a module linked into the binary.
type Resolver interface {
	Resolve(module string) (version string, ok bool)
}

type ResolverFunc func(module string) (string, bool)

func (f ResolverFunc) Resolve(module string) (string, bool) {
	return f(module)
}

// Static resolves from a fixed module to version map.
type Static map[string]string

func (s Static) Resolve(module string) (string, bool) {
	v, ok := s[module]
	return v, ok
}

type MissingError struct {
	Binding Binding
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("required binding %s is not available", e.Binding)
}

type VersionError struct {
	Binding Binding
	Found   string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("required binding %s found at incompatible version %s", e.Binding, e.Found)
}

// Check verifies every binding and joins all failures.
func Check(bindings []Binding, resolver Resolver) error {
	var errs []error
	for _, b := range bindings {
		if !semver.IsValid(b.MinVersion) {
			errs = append(errs, fmt.Errorf("binding %s: invalid minimum version %q", b.Name, b.MinVersion))
			continue
		}

		found, ok := resolver.Resolve(b.Module)
		if !ok {
			errs = append(errs, &MissingError{Binding: b})
			continue
		}

		if acceptAnyVersion(found) {
			continue
		}

		if !semver.IsValid(found) || semver.Compare(found, b.MinVersion) < 0 {
			errs = append(errs, &VersionError{Binding: b, Found: found})
			continue
		}

		if semver.Major(found) != semver.Major(b.MinVersion) {
			errs = append(errs, &VersionError{Binding: b, Found: found})
		}
	}
	return errors.Join(errs...)
}

// Local checkouts and replaced modules carry no comparable version.
func acceptAnyVersion(version string) bool {
	return version == "" || version == "(devel)" || strings.HasPrefix(version, "replace:")
}

// BuildInfo resolves modules from the running binary's build information.
func BuildInfo() Resolver {
	versions := Static{}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return versions
	}

	versions[info.Main.Path] = info.Main.Version
	for _, dep := range info.Deps {
		if dep.Replace != nil {
			versions[dep.Path] = "replace:" + dep.Replace.Path
			continue
		}
		versions[dep.Path] = dep.Version
	}
	return versions
}
