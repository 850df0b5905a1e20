package main

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dshills/modstudio/internal/app"
	"github.com/dshills/modstudio/internal/mod"
)

type historyEntry struct {
	Caption string `yaml:"caption"`
	Members int    `yaml:"members"`
	Merged  int    `yaml:"merged,omitempty"`
	Undone  bool   `yaml:"undone,omitempty"`
}

type report struct {
	Document mod.View       `yaml:"document"`
	History  []historyEntry `yaml:"history"`
	Cursor   int            `yaml:"cursor"`
}

func newReport(a *app.Application) report {
	r := report{
		Document: a.Document().View(),
		History:  []historyEntry{},
		Cursor:   a.Area().Cursor(),
	}
	for _, e := range a.Area().Entries() {
		r.History = append(r.History, historyEntry{
			Caption: e.Caption,
			Members: e.Members,
			Merged:  e.Merged,
			Undone:  e.Undone,
		})
	}
	return r
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
