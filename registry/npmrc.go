package registry

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/nulifyer/pkgpilot/logger"
)

// Npmrc is the registry setup collected from .npmrc files.
type Npmrc struct {
	// Registry is the default registry URL, empty when no file sets one.
	Registry string
	// Scopes maps "@scope" to its registry URL.
	Scopes map[string]string
	// Tokens maps a nerf-darted registry ("//host/path/") to its auth token.
	Tokens map[string]string
	// Files lists the files read, nearest first.
	Files []string
}

// LoadNpmrc reads <projectRoot>/.npmrc and then the user config
// ($NPM_CONFIG_USERCONFIG or ~/.npmrc). A key set by the project file
// is not overridden by the user file. Missing files are skipped.
func LoadNpmrc(projectRoot string) *Npmrc {
	n := &Npmrc{Scopes: map[string]string{}, Tokens: map[string]string{}}
	paths := []string{filepath.Join(projectRoot, ".npmrc")}
	if p := userNpmrcPath(); p != "" {
		paths = append(paths, p)
	}
	for _, p := range paths {
		n.addFile(p)
	}
	return n
}

func userNpmrcPath() string {
	if p := os.Getenv("NPM_CONFIG_USERCONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".npmrc")
}

func (n *Npmrc) addFile(path string) {
	if _, err := os.Stat(path); err != nil {
		logger.Trace("npmrc: skipping %q (%v)", path, err)
		return
	}
	// npmrc keys contain ':' so only '=' separates key and value.
	f, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:  "=",
		IgnoreInlineComment: true,
		AllowBooleanKeys:    true,
	}, path)
	if err != nil {
		logger.Warn("Ignoring %s: %v", path, err)
		return
	}
	n.Files = append(n.Files, path)

	for _, k := range f.Section(ini.DefaultSection).Keys() {
		name := strings.TrimSpace(k.Name())
		value := strings.TrimSpace(os.ExpandEnv(k.Value()))
		switch {
		case name == "registry":
			if n.Registry == "" {
				n.Registry = value
			}
		case strings.HasPrefix(name, "@") && strings.HasSuffix(name, ":registry"):
			scope := strings.TrimSuffix(name, ":registry")
			if _, ok := n.Scopes[scope]; !ok {
				n.Scopes[scope] = value
			}
		case strings.HasPrefix(name, "//") && strings.HasSuffix(name, ":_authToken"):
			reg := strings.TrimSuffix(name, ":_authToken")
			if _, ok := n.Tokens[reg]; !ok {
				n.Tokens[reg] = value
			}
		}
	}
	logger.Debug("npmrc: read %s (%d scope(s), %d token(s))", path, len(n.Scopes), len(n.Tokens))
}

// RegistryFor returns the registry configured for pkg's scope, or the
// default registry. Empty when neither is set.
func (n *Npmrc) RegistryFor(pkg string) string {
	if n == nil {
		return ""
	}
	if scope, _, ok := strings.Cut(pkg, "/"); ok && strings.HasPrefix(scope, "@") {
		if reg, ok := n.Scopes[scope]; ok {
			return reg
		}
	}
	return n.Registry
}

// TokenFor returns the auth token whose nerf-darted key is the longest
// prefix of registryURL.
func (n *Npmrc) TokenFor(registryURL string) string {
	if n == nil || len(n.Tokens) == 0 {
		return ""
	}
	dart := nerfDart(registryURL)
	best, token := 0, ""
	for key, t := range n.Tokens {
		k := strings.TrimSuffix(key, "/") + "/"
		if strings.HasPrefix(dart, k) && len(k) > best {
			best, token = len(k), t
		}
	}
	return token
}

// nerfDart strips the scheme: https://host/path -> //host/path/
func nerfDart(u string) string {
	if _, rest, ok := strings.Cut(u, "://"); ok {
		u = rest
	}
	return "//" + strings.TrimSuffix(u, "/") + "/"
}
