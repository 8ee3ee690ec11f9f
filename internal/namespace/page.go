package namespace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrResourceNotFound signals that a page's backing resource could not be
// located for the requested framework. Page bookkeeping still proceeds when
// this happens; clients may be able to resolve the page themselves.
var ErrResourceNotFound = errors.New("page resource not found")

// SystemPagePrefix marks pages that resolve under the system resource root
// regardless of which namespace requested them.
const SystemPagePrefix = "SYSTEM_"

// systemDir is the reserved resource directory for system pages.
const systemDir = "system"

// frameworkExt maps a display framework to its page file extension.
// Unknown frameworks map to no extension.
var frameworkExt = map[string]string{
	"qt5": "qml",
	"qt6": "qml",
}

// DefaultPageDuration is how long a non-persistent page stays visible.
const DefaultPageDuration = 30

// Page is one displayable unit within a namespace. Pages are immutable
// values compared by ID, never by object identity.
type Page struct {
	// URL is a direct locator. When set it short-circuits resolution.
	URL string
	// Name is the page name, unique within its namespace.
	Name string
	// PageID is an optional explicit identity distinct from Name.
	PageID string
	// Persistent pages never auto-expire.
	Persistent bool
	// Duration is the visibility time in seconds when not persistent.
	Duration int
	// Namespace is the owning namespace id.
	Namespace string
	// ResourceDirs maps a framework (or "all") to a resource directory.
	ResourceDirs map[string]string
}

// ID returns the page identity: the explicit page id when present,
// otherwise the URL.
func (p Page) ID() string {
	if p.PageID != "" {
		return p.PageID
	}
	return p.URL
}

// resolveNamespace returns the namespace a page's resources live under.
// SYSTEM_ pages always resolve under the system namespace.
func (p Page) resolveNamespace() string {
	if strings.HasPrefix(p.Name, SystemPagePrefix) {
		return systemDir
	}
	return p.Namespace
}

// Resolve returns a locator for this page. Direct URLs pass through
// unchanged. With a server URL, the locator is composed for HTTP serving.
// Otherwise the page is resolved against its resource directories for the
// given framework and the file must exist.
func (p Page) Resolve(framework, serverURL string) (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}

	if serverURL != "" {
		if !strings.Contains(serverURL, "://") {
			serverURL = "http://" + serverURL
		}
		return fmt.Sprintf("%s/%s/%s/%s", serverURL, p.resolveNamespace(),
			framework, p.fileName(framework)), nil
	}

	root, sub := p.resourceRoot(framework)
	if root == "" {
		return "", fmt.Errorf("%w: no resource directory for page %q framework %q",
			ErrResourceNotFound, p.Name, framework)
	}
	path := filepath.Join(root, sub, p.fileName(framework))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, path)
	}
	return path, nil
}

// resourceRoot picks the resource directory for a framework: an exact
// framework match wins, the "all" directory gains a framework subdirectory.
func (p Page) resourceRoot(framework string) (root, sub string) {
	if dir := p.ResourceDirs[framework]; dir != "" {
		return dir, ""
	}
	if dir := p.ResourceDirs["all"]; dir != "" {
		return dir, framework
	}
	return "", ""
}

func (p Page) fileName(framework string) string {
	if ext := frameworkExt[framework]; ext != "" {
		return p.Name + "." + ext
	}
	return p.Name
}
