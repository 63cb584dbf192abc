package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Note is a markdown document with an optional YAML frontmatter header.
type Note struct {
	Meta map[string]any
	Body string
}

// Parse splits content into frontmatter and body. Content without a
// leading fence is all body.
func Parse(content string) (Note, error) {
	if !strings.HasPrefix(content, fence) {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := content[len(fence):]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return Note{}, fmt.Errorf("frontmatter is not closed")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return Note{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	return Note{Meta: meta, Body: strings.TrimPrefix(rest[end+1+len(fence):], "\n")}, nil
}

func (n Note) Render() (string, error) {
	var buf bytes.Buffer
	if len(n.Meta) > 0 {
		raw, err := yaml.Marshal(n.Meta)
		if err != nil {
			return "", fmt.Errorf("encode frontmatter: %w", err)
		}
		buf.WriteString(fence)
		buf.Write(raw)
		buf.WriteString(fence)
		buf.WriteString("\n")
	}
	buf.WriteString(n.Body)
	return buf.String(), nil
}

// ReplaceBlock rewrites the generated section called name inside body and
// leaves everything around it alone. The section is appended when body
// does not have one yet.
func ReplaceBlock(body, name, generated string) string {
	open := "<!-- focusgarden:" + name + " -->"
	closing := "<!-- /focusgarden:" + name + " -->"
	block := open + "\n" + strings.TrimRight(generated, "\n") + "\n" + closing

	start := strings.Index(body, open)
	if start >= 0 {
		if end := strings.Index(body[start:], closing); end >= 0 {
			end += start + len(closing)
			return body[:start] + block + body[end:]
		}
	}
	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n\n"):
		return body + block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
