package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eazytourist/skyfare/pkg/client"
	"github.com/eazytourist/skyfare/pkg/domain"
)

type adminField int

const (
	adminFieldUsername adminField = iota
	adminFieldEmail
	adminFieldPassword
	adminFieldRole
	numAdminFields
)

// internalRoles are the roles an admin can hand out here. Plain USER
// accounts come from self-service registration.
var internalRoles = []domain.Role{domain.RoleAirline, domain.RoleAdmin}

type accountCreatedMsg struct {
	email string
	err   error
}

// adminModel is the staff account creation form.
type adminModel struct {
	auth      *client.Auth
	fields    [numAdminFields]string
	focus     adminField
	roleIdx   int
	submitted bool
	statusMsg string
	width     int
	height    int
}

func newAdminModel(a *client.Auth) adminModel {
	return adminModel{auth: a}
}

func (m adminModel) Init() tea.Cmd {
	return nil
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			if client.IsAuthFailure(msg.err) {
				return m, expireAuth()
			}
			m.statusMsg = serverMessage(msg.err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("account created: %s", msg.email)
		m.fields = [numAdminFields]string{}
		m.roleIdx = 0
		m.focus = adminFieldUsername
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m adminModel) handleKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numAdminFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numAdminFields) % numAdminFields
	case "enter", "ctrl+s":
		return m.submit()
	default:
		if m.focus == adminFieldRole {
			if key := msg.String(); key == "h" || key == "l" {
				if key == "l" {
					m.roleIdx = (m.roleIdx + 1) % len(internalRoles)
				} else {
					m.roleIdx = (m.roleIdx - 1 + len(internalRoles)) % len(internalRoles)
				}
			}
			return m, nil
		}
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m adminModel) submit() (adminModel, tea.Cmd) {
	username := strings.TrimSpace(m.fields[adminFieldUsername])
	email := strings.TrimSpace(m.fields[adminFieldEmail])
	password := m.fields[adminFieldPassword]

	if username == "" || email == "" || password == "" {
		m.statusMsg = "username, email and password are required"
		return m, nil
	}

	role := internalRoles[m.roleIdx]
	auth := m.auth
	m.submitted = true
	return m, func() tea.Msg {
		err := auth.CreateInternalAccount(context.Background(), client.CreateAccountRequest{
			Username: username,
			Email:    email,
			Password: password,
			Role:     string(role),
		})
		return accountCreatedMsg{email: email, err: err}
	}
}

func (m adminModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("── STAFF ACCOUNTS ──") + "\n\n")

	labels := [numAdminFields]string{"username", "email", "password", "role"}
	for i := adminField(0); i < numAdminFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}

		if i == adminFieldRole {
			role := internalRoles[m.roleIdx]
			b.WriteString(" " + cursor + " " + style.Render(labels[i]) + ": " +
				RoleStyle(role).Render(string(role)) + "  " + dimStyle.Render("(h/l to cycle)") + "\n")
			continue
		}

		value := m.fields[i]
		if i == adminFieldPassword {
			value = strings.Repeat("•", len([]rune(value)))
		}
		if i == m.focus {
			value += "█"
		}
		b.WriteString(" " + cursor + " " + style.Render(labels[i]) + ": " + value + "\n")
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(" " + dimStyle.Render("creating..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg))
	} else {
		b.WriteString(" " + dimStyle.Render("enter to create · tab to move"))
	}

	return b.String()
}
