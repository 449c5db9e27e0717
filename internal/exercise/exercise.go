package exercise

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/dshills/sensetype/internal/engine/audio"
	"github.com/dshills/sensetype/internal/engine/unit"
)

// Format is an exercise file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// file is the on-disk layout.
type file struct {
	Title      string            `yaml:"title" toml:"title"`
	Audio      string            `yaml:"audio" toml:"audio"`
	Timestamps string            `yaml:"timestamps" toml:"timestamps"`
	Words      []audio.Timestamp `yaml:"words" toml:"words"`
	Sections   []sectionSpec     `yaml:"sections" toml:"sections"`
}

type sectionSpec struct {
	Modality unit.Modality `yaml:"modality" toml:"modality"`
	Text     string        `yaml:"text" toml:"text"`
	Tokens   []string      `yaml:"tokens" toml:"tokens"`
}

// Exercise is a parsed exercise ready to be built into a sequence.
type Exercise struct {
	// ID identifies the content. Equal sections give equal ids.
	ID string

	Title string

	// Path is the file the exercise was loaded from, if any.
	Path string

	// Audio is the asset URL or resolved local path; empty without audio.
	Audio string

	// Timestamps is the resolved timestamp file; empty if none.
	Timestamps string

	// Words holds inline timestamps.
	Words []audio.Timestamp

	Sections []unit.Section
}

// Load reads and parses the exercise at path.
func Load(path string) (*Exercise, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exercise: %w", err)
	}
	x, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	x.Path = path
	dir := filepath.Dir(path)
	x.Audio = resolve(dir, x.Audio)
	x.Timestamps = resolve(dir, x.Timestamps)
	return x, nil
}

// Parse decodes an exercise.
func Parse(data []byte, format Format) (*Exercise, error) {
	var f file
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	x := &Exercise{
		Title:      f.Title,
		Audio:      f.Audio,
		Timestamps: f.Timestamps,
		Words:      f.Words,
	}
	units := 0
	for i, s := range f.Sections {
		if !s.Modality.Valid() {
			return nil, fmt.Errorf("section %d: %w", i, unit.ErrUnknownModality)
		}
		tokens := s.Tokens
		if len(tokens) == 0 {
			tokens = Tokenize(s.Text, s.Modality)
		}
		if len(tokens) == 0 {
			continue
		}
		x.Sections = append(x.Sections, unit.Section{Modality: s.Modality, Tokens: tokens})
		units += len(tokens)
	}
	if units == 0 {
		return nil, ErrNoUnits
	}
	x.ID = Identity(x.Sections)
	return x, nil
}

// Build allocates the unit sequence.
func (x *Exercise) Build() (*unit.Sequence, error) {
	return unit.Build(x.Sections)
}

// Units returns the number of units the exercise builds.
func (x *Exercise) Units() int {
	n := 0
	for _, s := range x.Sections {
		n += len(s.Tokens)
	}
	return n
}

// LoadTimestamps returns the inline timestamps, or those read from the
// timestamp file. It returns nil when neither is present.
func (x *Exercise) LoadTimestamps() ([]audio.Timestamp, error) {
	if len(x.Words) > 0 {
		return x.Words, nil
	}
	if x.Timestamps == "" {
		return nil, nil
	}
	data, err := os.ReadFile(x.Timestamps)
	if err != nil {
		return nil, fmt.Errorf("read timestamps: %w", err)
	}
	return audio.ParseTimestamps(data)
}

// Identity hashes the sections. It changes whenever a token or modality
// changes, so stale progress is never applied to edited content.
func Identity(sections []unit.Section) string {
	h := blake3.New()
	for _, s := range sections {
		_, _ = h.Write([]byte(s.Modality.String()))
		_, _ = h.Write([]byte{0})
		for _, tok := range s.Tokens {
			_, _ = h.Write([]byte(tok))
			_, _ = h.Write([]byte{0x1f})
		}
		_, _ = h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func resolve(dir, ref string) string {
	if ref == "" || strings.Contains(ref, "://") || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(dir, ref)
}
