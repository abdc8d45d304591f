// Package configfile loads and edits the per-user override file
// (fabric_user_config.yaml/.yml/.toml/.json) that customises project paths,
// Android SDK/NDK locations and the dependency bundle directory.
package configfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// BaseName is the override file name without extension.
const BaseName = "fabric_user_config"

// Extensions are tried in this order in every search directory.
var Extensions = []string{".yaml", ".yml", ".toml", ".json"}

var (
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrUnknownKey        = errors.New("unknown config key")
)

type Config struct {
	// Projects maps project name to a path, relative to the working directory.
	Projects      map[string]string `yaml:"waf_projects,omitempty" toml:"waf_projects,omitempty" json:"waf_projects,omitempty"`
	AndroidSDKDir string            `yaml:"android_sdk_dir,omitempty" toml:"android_sdk_dir,omitempty" json:"android_sdk_dir,omitempty"`
	AndroidNDKDir string            `yaml:"android_ndk_dir,omitempty" toml:"android_ndk_dir,omitempty" json:"android_ndk_dir,omitempty"`
	BundlePath    string            `yaml:"bundle_path,omitempty" toml:"bundle_path,omitempty" json:"bundle_path,omitempty"`
	ResolvePath   string            `yaml:"resolve_path,omitempty" toml:"resolve_path,omitempty" json:"resolve_path,omitempty"`
	ProjectName   string            `yaml:"project_name,omitempty" toml:"project_name,omitempty" json:"project_name,omitempty"`

	// Toolchains maps a mkspec family (android, ios, cross, ...) to extra
	// option=dir pairs passed to waf when a mkspec of that family is chosen.
	Toolchains map[string]map[string]string `yaml:"toolchains,omitempty" toml:"toolchains,omitempty" json:"toolchains,omitempty"`

	path string
}

// Default returns the configuration used when no override file exists.
func Default() *Config {
	return &Config{}
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// DependencyBase returns the configured base directory for unresolved
// dependencies. resolve_path wins over bundle_path.
func (c *Config) DependencyBase() (string, bool) {
	if c == nil {
		return "", false
	}
	if c.ResolvePath != "" {
		return c.ResolvePath, true
	}
	if c.BundlePath != "" {
		return c.BundlePath, true
	}
	return "", false
}

// ToolchainOptions returns the options for a mkspec family sorted by key.
func (c *Config) ToolchainOptions(family string) [][2]string {
	if c == nil {
		return nil
	}
	opts := c.Toolchains[family]
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, opts[k]})
	}
	return out
}

// GetProjectName returns the configured project name, falling back to the
// name of the git remote of dir, then to the base name of dir.
func (c *Config) GetProjectName(dir string) string {
	if c != nil && c.ProjectName != "" {
		return c.ProjectName
	}
	if name := detectProjectFromGitRemote(dir); name != "" {
		return name
	}
	return filepath.Base(dir)
}

// FindPath returns the first override file found in dirs, or "".
func FindPath(dirs ...string) string {
	for _, dir := range dirs {
		for _, ext := range Extensions {
			path := filepath.Join(dir, BaseName+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// Load reads the first override file found in dirs. It returns nil, nil when
// there is no override file.
func Load(dirs ...string) (*Config, error) {
	path := FindPath(dirs...)
	if path == "" {
		return nil, nil
	}
	return LoadFile(path)
}

// LoadFile parses a single override file; the format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path from FindPath or caller
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.path = path
	return &cfg, nil
}

// validKey reports whether key may be written with Set.
func validKey(key string) bool {
	parts := strings.Split(key, ".")
	switch parts[0] {
	case "android_sdk_dir", "android_ndk_dir", "bundle_path", "resolve_path", "project_name":
		return len(parts) == 1
	case "waf_projects":
		return len(parts) == 2 && parts[1] != ""
	case "toolchains":
		return len(parts) == 3 && parts[1] != "" && parts[2] != ""
	}
	return false
}

// Set writes key=value into the override file at path, creating it when it
// does not exist. Nested keys use dots: waf_projects.kodo, toolchains.ios.ios_sdk_dir.
func Set(path, key, value string) error {
	if !validKey(key) {
		return fmt.Errorf("%q: %w", key, ErrUnknownKey)
	}

	data, err := os.ReadFile(path) // #nosec G304 - path from FindPath or caller
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var out []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		out, err = setYAML(data, strings.Split(key, "."), value)
	case ".toml":
		out, err = setMap(data, strings.Split(key, "."), value, toml.Unmarshal, encodeTOML)
	case ".json":
		out, err = setMap(data, strings.Split(key, "."), value, json.Unmarshal, encodeJSON)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}

	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// setYAML edits the document through yaml.Node so comments and key order survive.
func setYAML(data []byte, keys []string, value string) ([]byte, error) {
	var root yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, err
		}
	}

	// Empty or comment-only files have no document content yet.
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		root = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if root.Content[0].Kind != yaml.MappingNode {
		root.Content[0] = &yaml.Node{Kind: yaml.MappingNode}
	}

	setNode(root.Content[0], keys, value)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setNode(mapping *yaml.Node, keys []string, value string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != keys[0] {
			continue
		}
		if len(keys) == 1 {
			mapping.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
			return
		}
		child := mapping.Content[i+1]
		if child.Kind != yaml.MappingNode {
			child = &yaml.Node{Kind: yaml.MappingNode}
			mapping.Content[i+1] = child
		}
		setNode(child, keys[1:], value)
		return
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: keys[0]}
	if len(keys) == 1 {
		mapping.Content = append(mapping.Content, keyNode,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
		return
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	mapping.Content = append(mapping.Content, keyNode, child)
	setNode(child, keys[1:], value)
}

func setMap(data []byte, keys []string, value string,
	decode func([]byte, any) error, encode func(map[string]any) ([]byte, error)) ([]byte, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := decode(data, &doc); err != nil {
			return nil, err
		}
	}

	m := doc
	for _, k := range keys[:len(keys)-1] {
		child, ok := m[k].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[k] = child
		}
		m = child
	}
	m[keys[len(keys)-1]] = value

	return encode(doc)
}

func encodeTOML(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(doc map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// detectProjectFromGitRemote extracts the repository name from the origin
// remote of dir. Returns "" if git is unavailable or no remote is configured.
func detectProjectFromGitRemote(dir string) string {
	cmd := exec.Command("git", "config", "--get", "remote.origin.url")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return ""
	}

	url := strings.TrimSpace(string(output))
	if url == "" {
		return ""
	}

	url = strings.TrimSuffix(url, ".git")

	// https://github.com/user/repo
	if strings.Contains(url, "://") {
		parts := strings.SplitN(url, "://", 2)
		url = parts[1]
	} else if strings.Contains(url, ":") {
		// git@github.com:user/repo
		parts := strings.SplitN(url, ":", 2)
		url = parts[1]
	}

	if strings.Contains(url, "/") {
		parts := strings.Split(url, "/")
		return parts[len(parts)-1]
	}
	return filepath.Base(url)
}
