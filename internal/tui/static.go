package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-lists/internal/session"
)

type homeScreen struct {
	sess *session.Session
}

func newHomeScreen(sess *session.Session) *homeScreen { return &homeScreen{sess: sess} }

func (s *homeScreen) Focus(context.Context) tea.Cmd { return nil }
func (s *homeScreen) Blur()                         {}
func (s *homeScreen) SetSize(int, int)              {}
func (s *homeScreen) Update(tea.Msg) tea.Cmd        { return nil }

func (s *homeScreen) View() string {
	return titleStyle.Render("Bienvenue, "+s.sess.Username()+" !") + "\n\n" +
		"Retrouvez vos listes dans l'onglet " + accentStyle.Render("TodoLists") + ".\n"
}

type aboutScreen struct{}

func (aboutScreen) Focus(context.Context) tea.Cmd { return nil }
func (aboutScreen) Blur()                         {}
func (aboutScreen) SetSize(int, int)              {}
func (aboutScreen) Update(tea.Msg) tea.Cmd        { return nil }

func (aboutScreen) View() string {
	return titleStyle.Render("A propos") + "\n\n" +
		"tada gère vos listes de tâches hébergées sur un serveur GraphQL.\n" +
		"Créez des listes, ajoutez des tâches, cochez-les et suivez votre progression.\n\n" +
		mutedStyle.Render("Les données restent sur le serveur ; rien n'est conservé localement\n"+
			"en dehors de votre jeton de connexion.") + "\n"
}
