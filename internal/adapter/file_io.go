// Package adapter contains filesystem and I/O adapters for the stubweave CLI.
package adapter

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"

	m "github.com/mouse-blink/stubweave/internal/model"
)

// detectPrefixLimit bounds the number of bytes fed to charset detection.
const detectPrefixLimit = 1 << 20

// FileIO abstracts encoding-tolerant reading and suffix-derived writing so
// the domain layer never deals with charsets or output paths directly.
type FileIO interface {
	// Read returns the decoded file content and the encoding name that
	// produced it. Undecodable bytes degrade to replacement characters;
	// only an unreadable file yields an error.
	Read(path m.Path) (content string, encodingName string, err error)

	// Write persists content to the derived output path (source path plus
	// suffix), re-encoded to the given encoding where possible. The
	// original file is never touched. Returns the output path.
	Write(path m.Path, content string, encodingName string) (m.Path, error)
}

// LocalFileIO is the disk-backed FileIO implementation.
type LocalFileIO struct {
	suffix    string
	fallbacks []string
}

// NewLocalFileIO constructs a LocalFileIO writing to paths derived with the
// given suffix and decoding with the given fallback encoding names.
func NewLocalFileIO(suffix string, fallbacks []string) *LocalFileIO {
	return &LocalFileIO{suffix: suffix, fallbacks: fallbacks}
}

// Read loads a file, detects its encoding over a bounded prefix and decodes
// with the first candidate that accepts the content. All decode failures
// degrade to replacement characters rather than erroring.
func (a *LocalFileIO) Read(path m.Path) (string, string, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}

	candidates := a.candidateEncodings(data)

	for _, name := range candidates {
		content, ok := decode(data, name)
		if ok {
			return content, name, nil
		}
	}

	// Last resort: raw bytes as UTF-8 with replacement characters.
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), "utf-8", nil
}

// Write encodes the content back to the source encoding (unsupported runes
// are replaced) and writes it next to the original under the output suffix.
func (a *LocalFileIO) Write(path m.Path, content string, encodingName string) (m.Path, error) {
	out := m.Path(string(path) + a.suffix)

	data := []byte(content)

	if enc := encodingByName(encodingName); enc != nil && enc != unicode.UTF8 {
		encoder := encoding.ReplaceUnsupported(enc.NewEncoder())

		encoded, err := encoder.Bytes(data)
		if err == nil {
			data = encoded
		}
	}

	if err := os.WriteFile(string(out), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}

	return out, nil
}

// candidateEncodings builds the ordered encoding list: statistical detection
// first, then the configured fallbacks, deduplicated.
func (a *LocalFileIO) candidateEncodings(data []byte) []string {
	var names []string

	if detected := detectEncoding(data); detected != "" {
		names = append(names, detected)
	}

	for _, name := range a.fallbacks {
		names = append(names, normalizeEncodingName(name))
	}

	seen := make(map[string]bool, len(names))
	unique := names[:0]

	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}

	return unique
}

// detectEncoding runs byte-frequency detection over a bounded prefix.
// Detection failure is not an error; it just shortens the candidate list.
func detectEncoding(data []byte) string {
	prefix := data
	if len(prefix) > detectPrefixLimit {
		prefix = prefix[:detectPrefixLimit]
	}

	result, err := chardet.NewTextDetector().DetectBest(prefix)
	if err != nil || result == nil {
		return ""
	}

	return normalizeEncodingName(result.Charset)
}

// normalizeEncodingName canonicalizes charset spellings and promotes the
// narrow Chinese encodings to gb18030, their superset.
func normalizeEncodingName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")

	switch name {
	case "gb2312", "gb-2312", "gbk", "gb-18030":
		return "gb18030"
	case "utf8":
		return "utf-8"
	case "iso-8859-1", "iso8859-1":
		return "latin1"
	default:
		return name
	}
}

func encodingByName(name string) encoding.Encoding {
	switch normalizeEncodingName(name) {
	case "utf-8", "ascii", "us-ascii":
		return unicode.UTF8
	case "gb18030":
		return simplifiedchinese.GB18030
	case "big5":
		return traditionalchinese.Big5
	case "latin1":
		return charmap.ISO8859_1
	case "windows-1252":
		return charmap.Windows1252
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		return nil
	}
}

// decode decodes data with the named encoding. UTF-8 input must be valid to
// be accepted so that mislabeled multi-byte content falls through to the
// wider candidates; other encodings substitute replacement characters.
func decode(data []byte, name string) (string, bool) {
	enc := encodingByName(name)
	if enc == nil {
		return "", false
	}

	if enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", false
		}

		return string(data), true
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}

	return string(decoded), true
}
