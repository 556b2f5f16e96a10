package tourfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/reviewtour/internal/tour"
)

type document struct {
	Tours []tourDoc `yaml:"tours"`
}

type tourDoc struct {
	Description string    `yaml:"description"`
	Visible     *bool     `yaml:"visible,omitempty"`
	Stops       []stopDoc `yaml:"stops"`
}

type stopDoc struct {
	File     string         `yaml:"file"`
	Revision string         `yaml:"revision,omitempty"`
	Binary   bool           `yaml:"binary,omitempty"`
	Before   tour.LineRange `yaml:"before"`
	After    tour.LineRange `yaml:"after"`
	Origins  []string       `yaml:"origins,omitempty"`
	Changes  []string       `yaml:"changes,omitempty"`
}

// Load reads a tour document from path.
func Load(path string) ([]tour.Tour, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tour file: %w", err)
	}
	defer f.Close()
	tours, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tours, nil
}

// Decode parses a tour document. An empty document yields no tours.
func Decode(r io.Reader) ([]tour.Tour, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing tour document: %w", err)
	}
	tours := make([]tour.Tour, 0, len(doc.Tours))
	for i, td := range doc.Tours {
		stops := make([]tour.Stop, 0, len(td.Stops))
		for j, sd := range td.Stops {
			if sd.File == "" {
				return nil, fmt.Errorf("tour %d stop %d: missing file", i+1, j+1)
			}
			stops = append(stops, tour.Stop{
				File:     sd.File,
				Revision: sd.Revision,
				Binary:   sd.Binary,
				Before:   sd.Before,
				After:    sd.After,
				Origins:  sd.Origins,
				Changes:  sd.Changes,
			})
		}
		visible := td.Visible == nil || *td.Visible
		tours = append(tours, tour.New(td.Description, visible, stops...))
	}
	return tours, nil
}

// Encode writes tours as a YAML document.
func Encode(w io.Writer, tours []tour.Tour) error {
	doc := document{Tours: make([]tourDoc, 0, len(tours))}
	for _, t := range tours {
		visible := t.Visible
		td := tourDoc{Description: t.Description, Visible: &visible}
		for _, s := range t.Stops {
			td.Stops = append(td.Stops, stopDoc{
				File:     s.File,
				Revision: s.Revision,
				Binary:   s.Binary,
				Before:   s.Before,
				After:    s.After,
				Origins:  s.Origins,
				Changes:  s.Changes,
			})
		}
		doc.Tours = append(doc.Tours, td)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding tour document: %w", err)
	}
	return enc.Close()
}
