package diagnostics

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/problemnav/internal/marker"
)

// Report maps documents to the markers an analyzer produced for them.
type Report map[marker.DocumentID][]marker.Marker

// Format identifies a report encoding.
type Format string

const (
	// FormatLSP is one or more LSP publishDiagnostics payloads: a single
	// object, an array of objects or one object per line.
	FormatLSP Format = "lsp"
	// FormatYAML is the YAML report format.
	FormatYAML Format = "yaml"
)

// FormatForPath picks the report format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return FormatLSP, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ReadReport reads and parses a report file.
func ReadReport(path string) (Report, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}

	return ParseReport(path, format, data)
}

// ParseReport parses report data. path is only used in error messages.
func ParseReport(path string, format Format, data []byte) (Report, error) {
	switch format {
	case FormatLSP:
		return parseLSP(path, data)
	case FormatYAML:
		return parseYAML(path, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// parseLSP reads publishDiagnostics notifications. Both full JSON-RPC
// notifications and bare params objects are accepted. Later notifications for
// the same document replace earlier ones, as they would on the wire.
func parseLSP(path string, data []byte) (Report, error) {
	report := make(Report)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return report, nil
	}

	if gjson.ValidBytes(trimmed) {
		root := gjson.ParseBytes(trimmed)
		if root.IsArray() {
			for _, n := range root.Array() {
				if err := addNotification(report, path, 0, n); err != nil {
					return nil, err
				}
			}
			return report, nil
		}
		if err := addNotification(report, path, 0, root); err != nil {
			return nil, err
		}
		return report, nil
	}

	// JSON lines
	for i, line := range bytes.Split(trimmed, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, &ParseError{Path: path, Line: i + 1, Message: "invalid JSON"}
		}
		if err := addNotification(report, path, i+1, gjson.ParseBytes(line)); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func addNotification(report Report, path string, line int, n gjson.Result) error {
	params := n.Get("params")
	if !params.Exists() {
		params = n
	}

	uri := params.Get("uri")
	if !uri.Exists() || uri.String() == "" {
		return &ParseError{Path: path, Line: line, Message: "notification without uri"}
	}
	doc := DocumentIDFromURI(uri.String())

	diags := params.Get("diagnostics")
	if !diags.IsArray() {
		return &ParseError{Path: path, Line: line, Message: fmt.Sprintf("%s: diagnostics must be an array", doc)}
	}

	markers := make([]marker.Marker, 0, len(diags.Array()))
	for _, d := range diags.Array() {
		sev := marker.SeverityError
		if s := d.Get("severity"); s.Exists() {
			sev = marker.Severity(s.Int())
			if !sev.Valid() {
				return &ParseError{Path: path, Line: line, Message: fmt.Sprintf("%s: invalid severity %d", doc, s.Int())}
			}
		}

		markers = append(markers, marker.Marker{
			Document: doc,
			Start:    marker.Pos(int(d.Get("range.start.line").Int()), int(d.Get("range.start.character").Int())),
			End:      marker.Pos(int(d.Get("range.end.line").Int()), int(d.Get("range.end.character").Int())),
			Severity: sev,
			Message:  d.Get("message").String(),
			Source:   d.Get("source").String(),
			Code:     d.Get("code").String(),
		})
	}

	report[doc] = markers
	return nil
}

// DocumentIDFromURI turns file:// URIs into file paths. Other URIs are
// returned unchanged.
func DocumentIDFromURI(uri string) marker.DocumentID {
	if !strings.HasPrefix(uri, "file://") {
		return marker.DocumentID(uri)
	}
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return marker.DocumentID(uri)
	}
	return marker.DocumentID(filepath.FromSlash(u.Path))
}

type yamlReport struct {
	Documents []yamlDocument `yaml:"documents"`
}

type yamlDocument struct {
	ID      string       `yaml:"id"`
	Markers []yamlMarker `yaml:"markers"`
}

type yamlMarker struct {
	Line      int    `yaml:"line"`
	Column    int    `yaml:"column"`
	EndLine   *int   `yaml:"endLine"`
	EndColumn *int   `yaml:"endColumn"`
	Severity  string `yaml:"severity"`
	Message   string `yaml:"message"`
	Source    string `yaml:"source"`
	Code      string `yaml:"code"`
}

func parseYAML(path string, data []byte) (Report, error) {
	var yr yamlReport
	if err := yaml.Unmarshal(data, &yr); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	report := make(Report, len(yr.Documents))
	for _, yd := range yr.Documents {
		if yd.ID == "" {
			return nil, &ParseError{Path: path, Message: "document without id"}
		}
		doc := marker.DocumentID(yd.ID)

		markers := make([]marker.Marker, 0, len(yd.Markers))
		for _, ym := range yd.Markers {
			sev, ok := marker.ParseSeverity(ym.Severity)
			if !ok {
				return nil, &ParseError{Path: path, Message: fmt.Sprintf("%s: unknown severity %q", doc, ym.Severity)}
			}
			if ym.Line < 0 || ym.Column < 0 {
				return nil, &ParseError{Path: path, Message: fmt.Sprintf("%s: negative position %d:%d", doc, ym.Line, ym.Column)}
			}

			m := marker.Marker{
				Document: doc,
				Start:    marker.Pos(ym.Line, ym.Column),
				End:      marker.Pos(ym.Line, ym.Column),
				Severity: sev,
				Message:  ym.Message,
				Source:   ym.Source,
				Code:     ym.Code,
			}
			if ym.EndLine != nil {
				m.End.Line = *ym.EndLine
			}
			if ym.EndColumn != nil {
				m.End.Column = *ym.EndColumn
			}
			markers = append(markers, m)
		}
		report[doc] = append(report[doc], markers...)
	}

	return report, nil
}
