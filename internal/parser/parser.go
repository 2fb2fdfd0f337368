// Package parser converts card files (YAML frontmatter plus a Markdown
// body) to and from board items.
package parser

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/safal938/board28-sub000/internal/models"
)

const delim = "---"

// frontmatter is the on-disk schema of a card header.
type frontmatter struct {
	ID      string        `yaml:"id,omitempty"`
	Kind    string        `yaml:"kind,omitempty"`
	Title   string        `yaml:"title,omitempty"`
	X       float64       `yaml:"x"`
	Y       float64       `yaml:"y"`
	Width   float64       `yaml:"width"`
	Height  models.Height `yaml:"height"`
	Date    *time.Time    `yaml:"date,omitempty"`
	EndDate *time.Time    `yaml:"end_date,omitempty"`
	Track   string        `yaml:"track,omitempty"`
}

// Parse decodes a card file. The item id falls back to the file stem of
// filePath, and the title to the first H1 heading of the body. A file
// without frontmatter is a card with default geometry and "auto" height.
func Parse(filePath string, data []byte) (models.Item, error) {
	block, body, ok := splitFrontmatter(data)

	fm := frontmatter{Height: models.Auto()}
	if ok {
		if err := yaml.Unmarshal(block, &fm); err != nil {
			return models.Item{}, fmt.Errorf("parser: %s: invalid frontmatter: %w", filePath, err)
		}
	}

	item := models.Item{
		ID:      fm.ID,
		Kind:    fm.Kind,
		Title:   fm.Title,
		X:       fm.X,
		Y:       fm.Y,
		Width:   fm.Width,
		Height:  fm.Height,
		Date:    fm.Date,
		EndDate: fm.EndDate,
		Track:   fm.Track,
		Body:    body,
	}
	if item.ID == "" {
		item.ID = Stem(filePath)
	}
	if item.Title == "" {
		item.Title = firstHeading(body)
	}
	return item, nil
}

// Render encodes an item as a card file.
func Render(item models.Item) ([]byte, error) {
	fm := frontmatter{
		ID:      item.ID,
		Kind:    item.Kind,
		Title:   item.Title,
		X:       item.X,
		Y:       item.Y,
		Width:   item.Width,
		Height:  item.Height,
		Date:    item.Date,
		EndDate: item.EndDate,
		Track:   item.Track,
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("parser: render %s: %w", item.ID, err)
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	buf.Write(header)
	buf.WriteString(delim + "\n")
	if item.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(item.Body)
		if !strings.HasSuffix(item.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// Stem returns the file name of p without directory and extension.
func Stem(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// splitFrontmatter separates the YAML block between leading --- lines from
// the body. ok is false when the file has no complete frontmatter.
func splitFrontmatter(data []byte) (block []byte, body string, ok bool) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data), false
	}

	after := rest[idx+1+len(delim):]
	return rest[:idx], strings.TrimLeft(string(after), "\n\r"), true
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
