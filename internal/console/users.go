package console

import (
	"fmt"
	"strconv"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/services"
)

func (s *Session) login() error {
	s.out.Section("Log in")
	email, err := s.askRequired("Email")
	if err != nil {
		return err
	}
	password, err := s.askPassword("Password")
	if err != nil {
		return err
	}

	user, err := s.svc.Users.Login(email, password)
	if err != nil {
		return err
	}
	s.user = user
	s.out.Success("Welcome, %s!", user.Name)
	return nil
}

func (s *Session) register() error {
	s.out.Section("Register")
	name, err := s.ask("Name")
	if err != nil {
		return err
	}
	email, err := s.ask("Email")
	if err != nil {
		return err
	}
	password, err := s.askPassword("Password (min. 6 characters)")
	if err != nil {
		return err
	}
	confirmation, err := s.askPassword("Confirm password")
	if err != nil {
		return err
	}

	user, err := s.svc.Users.Register(name, email, password, confirmation)
	if err != nil {
		return err
	}
	s.out.Success("User %s registered. You can now log in.", user.Email)
	return nil
}

func (s *Session) requireUser() (*models.User, error) {
	if s.user == nil {
		return nil, fmt.Errorf("%w: log in first", services.ErrValidation)
	}
	return s.user, nil
}

var accountOptions = []string{
	"List users",
	"Edit my profile",
	"Delete my account",
}

func (s *Session) accountsMenu() error {
	choice, err := s.menu("User accounts", accountOptions, "Back")
	if err != nil || choice == 0 {
		return err
	}

	switch choice {
	case 1:
		return s.listUsers()
	case 2:
		return s.editProfile()
	default:
		return s.deleteAccount()
	}
}

func (s *Session) listUsers() error {
	users, err := s.svc.Users.ListUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		s.out.Warning("No users registered.")
		return nil
	}
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{strconv.FormatUint(uint64(u.ID), 10), u.Name, u.Email, u.Role, u.RegisteredAt()}
	}
	s.out.Section("Registered users")
	s.out.Table([]string{"ID", "Name", "Email", "Role", "Registered"}, rows)
	return nil
}

func (s *Session) editProfile() error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	s.out.Section("Edit profile")
	name, err := s.askDefault("Name", user.Name)
	if err != nil {
		return err
	}
	email, err := s.askDefault("Email", user.Email)
	if err != nil {
		return err
	}

	updated, err := s.svc.Users.UpdateUser(user.ID, name, email)
	if err != nil {
		return err
	}
	s.user = updated
	s.out.Success("Profile updated: %s <%s>", updated.Name, updated.Email)
	return nil
}

func (s *Session) deleteAccount() error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	ok, err := s.confirm(fmt.Sprintf("Delete the account %s? Varieties you registered are kept", user.Email))
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	if err := s.svc.Users.DeleteUser(user.ID); err != nil {
		return err
	}
	s.user = nil
	s.out.Success("Account %s deleted", user.Email)
	return nil
}
