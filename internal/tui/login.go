package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eazytourist/skyfare/pkg/client"
)

type loginField int

const (
	loginFieldUsername loginField = iota // register mode only
	loginFieldEmail
	loginFieldPassword
	numLoginFields
)

// signedInMsg is emitted when the auth service accepts credentials. The
// root model stores the token and unlocks the signed-in views.
type signedInMsg struct {
	token string
}

type loginFailedMsg struct{ err error }

type registeredMsg struct {
	email string
	err   error
}

type loginModel struct {
	auth        *client.Auth
	fields      [numLoginFields]string
	focus       loginField
	registering bool
	submitted   bool
	statusMsg   string
	width       int
	height      int
}

func newLoginModel(a *client.Auth) loginModel {
	return loginModel{auth: a, focus: loginFieldEmail}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

// firstField is the topmost focusable field for the current mode.
func (m loginModel) firstField() loginField {
	if m.registering {
		return loginFieldUsername
	}
	return loginFieldEmail
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginFailedMsg:
		m.submitted = false
		m.statusMsg = serverMessage(msg.err)
		return m, nil

	case registeredMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = serverMessage(msg.err)
			return m, nil
		}
		// Drop back to sign-in with the email prefilled.
		m.registering = false
		m.fields[loginFieldUsername] = ""
		m.fields[loginFieldPassword] = ""
		m.fields[loginFieldEmail] = msg.email
		m.focus = loginFieldPassword
		m.statusMsg = "account created, sign in to continue"
		return m, nil

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+r":
		m.registering = !m.registering
		m.focus = m.firstField()
		return m, nil
	case "tab", "down":
		m.focus++
		if m.focus >= numLoginFields {
			m.focus = m.firstField()
		}
		return m, nil
	case "shift+tab", "up":
		if m.focus <= m.firstField() {
			m.focus = numLoginFields - 1
		} else {
			m.focus--
		}
		return m, nil
	case "enter", "ctrl+s":
		return m.submit()
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.fields[loginFieldUsername])
	email := strings.TrimSpace(m.fields[loginFieldEmail])
	password := m.fields[loginFieldPassword]

	if email == "" || password == "" {
		m.statusMsg = "email and password are required"
		return m, nil
	}

	auth := m.auth

	if m.registering {
		if username == "" {
			m.statusMsg = "username is required"
			return m, nil
		}
		m.submitted = true
		return m, func() tea.Msg {
			_, err := auth.Register(context.Background(), client.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			return registeredMsg{email: email, err: err}
		}
	}

	m.submitted = true
	return m, func() tea.Msg {
		token, err := auth.Login(context.Background(), email, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return signedInMsg{token: token}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	if m.registering {
		b.WriteString(" " + selectedStyle.Render("Create an account") + "\n\n")
	} else {
		b.WriteString(" " + selectedStyle.Render("Sign in") + "\n\n")
	}

	labels := [numLoginFields]string{"username", "email", "password"}
	for i := m.firstField(); i < numLoginFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == loginFieldPassword {
			value = strings.Repeat("•", len([]rune(value)))
		}
		if i == m.focus {
			value += "█"
		}
		b.WriteString(" " + cursor + " " + style.Render(labels[i]) + ": " + value + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitted:
		b.WriteString(" " + dimStyle.Render("signing in..."))
	case m.statusMsg != "":
		b.WriteString(" " + okStyle.Render(m.statusMsg))
	case m.registering:
		b.WriteString(" " + dimStyle.Render("enter to register · ctrl+r to sign in instead"))
	default:
		b.WriteString(" " + dimStyle.Render("enter to sign in · ctrl+r to create an account"))
	}

	return b.String()
}
