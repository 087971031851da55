package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"irc-client/internal/i18n"
)

const aboutIconSize = 64

func (a *Application) showAbout() {
	if a.window == nil {
		if err := a.Activate(); err != nil {
			a.logger.Error("Application", err, map[string]interface{}{"action": ActionAbout})
			return
		}
	}

	dialog.ShowCustom(
		i18n.Sprintf("About %s", a.name),
		i18n.L("Close"),
		a.aboutContent(),
		a.window.Window(),
	)
}

func (a *Application) aboutContent() fyne.CanvasObject {
	name := widget.NewLabelWithStyle(a.name, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	version := widget.NewLabelWithStyle(i18n.Sprintf("Version %s", a.version), fyne.TextAlignCenter, fyne.TextStyle{})
	license := widget.NewLabelWithStyle(i18n.L("License: GNU General Public License v3.0"), fyne.TextAlignCenter, fyne.TextStyle{})

	items := []fyne.CanvasObject{name, version, license}

	if a.icon != nil {
		img := canvas.NewImageFromResource(a.icon)
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(aboutIconSize, aboutIconSize))
		items = append([]fyne.CanvasObject{img}, items...)
	}

	return container.NewVBox(items...)
}
