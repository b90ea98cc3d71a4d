package msgcat

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"

	"duel-tracker/internal/config"
)

const DefaultLocale = "ko"

//go:embed messages.*.yaml
var defaultFiles embed.FS

// Catalog holds user facing texts as text/template sources keyed by
// flattened dot paths ("rank.promoted"). Missing template fields are errors.
type Catalog struct {
	mu     sync.RWMutex
	locale string
	data   map[string]string
	cache  map[string]*template.Template
}

// New loads the embedded messages for locale, falling back to Korean, and
// then applies overrides from dir if it is set.
func New(locale, overrideDir string) (*Catalog, error) {
	c := &Catalog{
		data:  make(map[string]string),
		cache: make(map[string]*template.Template),
	}

	if err := c.loadEmbedded(DefaultLocale); err != nil {
		return nil, err
	}
	c.locale = DefaultLocale

	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale != "" && locale != DefaultLocale {
		if err := c.loadEmbedded(locale); err == nil {
			c.locale = locale
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Provide builds the catalog from configuration for fx.
func Provide(cfg *config.Config, logger zerolog.Logger) (*Catalog, error) {
	c, err := New(cfg.Locale, cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load message catalog: %w", err)
	}
	if cfg.Locale != "" && c.Locale() != strings.ToLower(strings.TrimSpace(cfg.Locale)) {
		logger.Warn().Str("locale", cfg.Locale).Str("using", c.Locale()).Msg("unknown locale, falling back")
	}
	return c, nil
}

func (c *Catalog) Locale() string {
	return c.locale
}

func (c *Catalog) loadEmbedded(locale string) error {
	raw, err := fs.ReadFile(defaultFiles, "messages."+locale+".yaml")
	if err != nil {
		return fmt.Errorf("read embedded messages %s: %w", locale, err)
	}
	return c.applyYAML(raw)
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read message dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	seen := make(map[string]string) // key -> file
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		flat, err := parseYAMLToFlat(b)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range flat {
			if prev, ok := seen[k]; ok {
				return fmt.Errorf("duplicate override key %q in %s and %s", k, prev, name)
			}
			seen[k] = name
		}
		c.merge(flat)
	}
	return nil
}

func (c *Catalog) applyYAML(b []byte) error {
	flat, err := parseYAMLToFlat(b)
	if err != nil {
		return err
	}
	c.merge(flat)
	return nil
}

func (c *Catalog) merge(flat map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range flat {
		c.data[k] = v
		delete(c.cache, k)
	}
}

func parseYAMLToFlat(b []byte) (map[string]string, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	if err := flattenStrings(m, "", flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func flattenStrings(src any, prefix string, out map[string]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flattenStrings(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case string:
		if prefix == "" {
			return errors.New("string value without key prefix")
		}
		out[prefix] = v
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// Render executes the template stored under key.
func (c *Catalog) Render(key string, data any) (string, error) {
	key = strings.TrimSpace(key)

	c.mu.RLock()
	tpl, cached := c.cache[key]
	src, ok := c.data[key]
	c.mu.RUnlock()

	if !cached {
		if !ok || strings.TrimSpace(src) == "" {
			return "", fmt.Errorf("template not found: %s", key)
		}
		parsed, err := template.New(key).Option("missingkey=error").Parse(src)
		if err != nil {
			return "", fmt.Errorf("parse template %s: %w", key, err)
		}
		c.mu.Lock()
		c.cache[key] = parsed
		c.mu.Unlock()
		tpl = parsed
	}

	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", key, err)
	}
	return b.String(), nil
}
