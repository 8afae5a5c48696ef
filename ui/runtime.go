package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

func Start(path string, image []byte) error {
	viewer, err := CreateViewer(path, image)
	if err != nil {
		return err
	}
	if err := tea.NewProgram(viewer).Start(); err != nil {
		return errors.Wrap(err, "ui.Start error")
	}
	return nil
}
