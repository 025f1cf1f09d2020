package tui

import "github.com/charmbracelet/bubbles/key"

var (
	addKey        = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "ajouter"))
	editKey       = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "modifier"))
	deleteKey     = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "supprimer"))
	openKey       = key.NewBinding(key.WithKeys("enter"), key.WithHelp("entrée", "ouvrir"))
	refreshKey    = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "actualiser"))
	toggleKey     = key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("espace", "cocher"))
	filterKey     = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filtre"))
	checkAllKey   = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "tout cocher"))
	uncheckAllKey = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "tout décocher"))
	backKey       = key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("échap", "retour"))

	confirmKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("entrée", "valider"))
	cancelKey  = key.NewBinding(key.WithKeys("esc"), key.WithHelp("échap", "annuler"))
)
