package bot

import (
	"context"
	"fmt"
	"strings"

	"holidaze/internal/models"

	"github.com/rs/zerolog"
)

// startLogin begins the email/password dialog.
func (b *Bot) startLogin(ctx context.Context, chatID int64) {
	session := b.authService.Session(ctx, chatID)
	if session.IsAuthenticated() {
		b.sendMessage(chatID, fmt.Sprintf("You are already logged in as %s. Use /logout first.", session.Name))
		return
	}
	b.setStep(ctx, chatID, models.StepLoginEmail, nil)
	b.sendMessage(chatID, "Enter your email address:")
}

// startRegister begins the account-creation dialog.
func (b *Bot) startRegister(ctx context.Context, chatID int64) {
	session := b.authService.Session(ctx, chatID)
	if session.IsAuthenticated() {
		b.sendMessage(chatID, fmt.Sprintf("You are already logged in as %s. Use /logout first.", session.Name))
		return
	}
	b.setStep(ctx, chatID, models.StepRegisterName, nil)
	b.sendMessage(chatID, "Pick a username (letters, digits and underscores):")
}

// handleAuthStep walks the login and register dialogs one field at a time.
// Credentials never stay in chat state after the final step.
func (b *Bot) handleAuthStep(ctx context.Context, chatID int64, state *models.ChatState, text string) {
	switch state.Step {
	case models.StepLoginEmail:
		if !strings.Contains(text, "@") {
			b.sendMessage(chatID, "That does not look like an email address. Try again:")
			return
		}
		b.setStep(ctx, chatID, models.StepLoginPassword, map[string]interface{}{"email": text})
		b.sendMessage(chatID, "Enter your password:")

	case models.StepLoginPassword:
		email := state.GetString("email")
		user, err := b.authService.Login(ctx, chatID, email, text)
		_ = b.stateService.ClearChatState(ctx, chatID)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int64("chat_id", chatID).Msg("login failed")
			b.notifier.Error(chatID, errorText(err))
			return
		}
		b.notifier.Success(chatID, fmt.Sprintf("Welcome back, %s!", user.Name))

	case models.StepRegisterName:
		if !isValidUsername(text) {
			b.sendMessage(chatID, "Usernames may only contain letters, digits and underscores. Try again:")
			return
		}
		b.setStep(ctx, chatID, models.StepRegisterEmail, map[string]interface{}{"name": text})
		b.sendMessage(chatID, "Enter your stud.noroff.no email address:")

	case models.StepRegisterEmail:
		if !strings.HasSuffix(strings.ToLower(text), "@stud.noroff.no") {
			b.sendMessage(chatID, "Please enter a valid stud.noroff.no email address.")
			return
		}
		b.setStep(ctx, chatID, models.StepRegisterPass, map[string]interface{}{
			"name":  state.GetString("name"),
			"email": text,
		})
		b.sendMessage(chatID, "Choose a password (at least 8 characters):")

	case models.StepRegisterPass:
		if len(text) < 8 {
			b.sendMessage(chatID, "Password must be at least 8 characters. Try again:")
			return
		}
		input := models.RegisterInput{
			Name:     state.GetString("name"),
			Email:    state.GetString("email"),
			Password: text,
		}
		user, loggedIn, err := b.authService.Register(ctx, chatID, input)
		_ = b.stateService.ClearChatState(ctx, chatID)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int64("chat_id", chatID).Msg("register failed")
			b.notifier.Error(chatID, errorText(err))
			return
		}
		if loggedIn {
			b.notifier.Success(chatID, fmt.Sprintf("Welcome, %s! Your account is ready and you are logged in.", user.Name))
			return
		}
		b.notifier.Success(chatID, "Account created! Use /login to sign in.")
	}
}

func (b *Bot) handleLogout(ctx context.Context, chatID int64) {
	session := b.authService.Session(ctx, chatID)
	if !session.IsAuthenticated() {
		b.sendMessage(chatID, "You are not logged in.")
		return
	}
	if err := b.authService.Logout(ctx, chatID); err != nil {
		b.notifier.Error(chatID, errorText(err))
		return
	}
	_ = b.stateService.ClearChatState(ctx, chatID)
	b.notifier.Success(chatID, "You have been logged out.")
}

func isValidUsername(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
