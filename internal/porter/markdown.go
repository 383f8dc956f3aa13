package porter

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// frontmatter is the YAML block carried at the top of exported Markdown.
type frontmatter struct {
	ID      string   `yaml:"id,omitempty"`
	Title   string   `yaml:"title"`
	Tags    []string `yaml:"tags,omitempty"`
	Created string   `yaml:"created,omitempty"`
	Updated string   `yaml:"updated,omitempty"`
}

// DecodeMarkdown parses a Markdown file into a record. A leading YAML front
// matter block (between --- delimiters) supplies title, tags, and timestamps;
// without one, the title falls back to the file name and the whole file
// becomes content.
func DecodeMarkdown(path string, data []byte) (Record, error) {
	fm, body := splitFrontmatter(data)

	rec := Record{Content: body}
	if fm != nil {
		rec.ID = fm.ID
		rec.Title = fm.Title
		rec.Tags = fm.Tags
		if fm.Created != "" {
			if t, err := time.Parse(time.RFC3339, fm.Created); err == nil {
				t = t.UTC()
				rec.Created = &t
			}
		}
		if fm.Updated != "" {
			if t, err := time.Parse(time.RFC3339, fm.Updated); err == nil {
				t = t.UTC()
				rec.Updated = &t
			}
		}
	}
	if rec.Title == "" {
		base := filepath.Base(path)
		rec.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return rec, rec.Validate()
}

// EncodeMarkdown renders a record as Markdown, optionally prefixed with a
// YAML front matter block.
func EncodeMarkdown(rec Record, withFrontmatter bool) ([]byte, error) {
	if !withFrontmatter {
		return []byte(rec.Content), nil
	}

	fm := frontmatter{
		ID:    rec.ID,
		Title: rec.Title,
		Tags:  rec.Tags,
	}
	if rec.Created != nil {
		fm.Created = rec.Created.UTC().Format(time.RFC3339)
	}
	if rec.Updated != nil {
		fm.Updated = rec.Updated.UTC().Format(time.RFC3339)
	}

	block, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("porter: marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(block)
	buf.WriteString("---\n\n")
	buf.WriteString(rec.Content)
	return buf.Bytes(), nil
}

// splitFrontmatter separates the YAML front matter (between leading ---
// delimiters) from the Markdown body. Without a valid block the entire
// content is body.
func splitFrontmatter(data []byte) (*frontmatter, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm frontmatter
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML: treat everything as body.
		return nil, string(data)
	}
	return &fm, body
}
