// Package console implements the interactive numbered-menu session.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/services"
	"golang.org/x/term"
)

// errEndOfInput ends the session when the input is exhausted.
var errEndOfInput = errors.New("end of input")

var errCancelled = errors.New("cancelled")

type Services struct {
	Varieties       *services.VarietyService
	Recommendations *services.RecommendationService
	Comparisons     *services.ComparisonService
	Statistics      *services.StatisticsService
	Catalog         *services.CatalogService
	Users           *services.UserService
}

type Options struct {
	PageSize int
	// OpenExports opens written catalogs with Opener.
	OpenExports bool
	Opener      func(path string) error
}

type Session struct {
	svc  Services
	opts Options
	in   *bufio.Scanner
	out  *printer

	readPassword func() (string, error)
	user         *models.User
}

func NewSession(in io.Reader, out io.Writer, svc Services, opts Options) *Session {
	if opts.PageSize < 1 {
		opts.PageSize = 10
	}
	s := &Session{
		svc:  svc,
		opts: opts,
		in:   bufio.NewScanner(in),
		out:  newPrinter(out),
	}
	s.readPassword = s.readLine
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		s.readPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(s.out.out)
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
	}
	return s
}

// Run shows the main menu until the user exits or the input ends.
func (s *Session) Run() error {
	s.out.Section("COLOMBIAN COFFEE VARIETY CATALOG")
	for {
		s.out.Println()
		if s.user != nil {
			s.out.Muted("Signed in as %s <%s>", s.user.Name, s.user.Email)
		}
		login := "Log in"
		if s.user != nil {
			login = "Log out"
		}
		choice, err := s.menu("Main menu", []string{login, "Register", "Variety catalog", "User accounts"}, "Exit")
		if err != nil {
			if errors.Is(err, errEndOfInput) {
				return nil
			}
			return err
		}

		switch choice {
		case 0:
			s.out.Println()
			s.out.Success("Thank you for using the coffee catalog!")
			return nil
		case 1:
			if s.user != nil {
				s.out.Info("Signed out %s", s.user.Name)
				s.user = nil
				continue
			}
			err = s.login()
		case 2:
			err = s.register()
		case 3:
			err = s.catalogMenu()
		case 4:
			err = s.accountsMenu()
		}
		if err != nil {
			if errors.Is(err, errEndOfInput) {
				return nil
			}
			s.report(err)
		}
	}
}

// report prints one message for a failed action.
func (s *Session) report(err error) {
	switch {
	case errors.Is(err, errCancelled):
		s.out.Muted("Cancelled.")
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrVarietyNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotSupported):
		s.out.Error("%v", err)
	default:
		s.out.Error("Unexpected error: %v", err)
	}
}

func (s *Session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) ask(label string) (string, error) {
	s.out.Printf("%s: ", label)
	return s.readLine()
}

// askDefault keeps current when the answer is empty.
func (s *Session) askDefault(label, current string) (string, error) {
	if current == "" {
		return s.ask(label)
	}
	s.out.Printf("%s [%s]: ", label, current)
	answer, err := s.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	if answer == "-" {
		return "", nil
	}
	return answer, nil
}

func (s *Session) askRequired(label string) (string, error) {
	answer, err := s.ask(label)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("%w: %s is required", services.ErrValidation, strings.ToLower(label))
	}
	return answer, nil
}

func (s *Session) askPassword(label string) (string, error) {
	s.out.Printf("%s: ", label)
	return s.readPassword()
}

func parseInt(label, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", services.ErrValidation, strings.ToLower(label))
	}
	return n, nil
}

func (s *Session) askInt(label string) (int, error) {
	raw, err := s.askRequired(label)
	if err != nil {
		return 0, err
	}
	return parseInt(label, raw)
}

// askOptionalInt returns nil for an empty answer.
func (s *Session) askOptionalInt(label string, current *int) (*int, error) {
	def := ""
	if current != nil {
		def = strconv.Itoa(*current)
	}
	raw, err := s.askDefault(label, def)
	if err != nil || raw == "" {
		return nil, err
	}
	n, err := parseInt(label, raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Session) askID(label string) (uint, error) {
	n, err := s.askInt(label)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s must be positive", services.ErrValidation, strings.ToLower(label))
	}
	return uint(n), nil
}

// askIDs reads a comma or space separated id list.
func (s *Session) askIDs(label string) ([]uint, error) {
	raw, err := s.ask(label)
	if err != nil {
		return nil, err
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	ids := make([]uint, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("%w: %q is not a valid id", services.ErrValidation, f)
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

func (s *Session) confirm(label string) (bool, error) {
	answer, err := s.ask(label + " (y/N)")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes" || answer == "s" || answer == "si", nil
}

// menu prints numbered options and returns the chosen number, 0 for back.
// Invalid choices are reported and asked again.
func (s *Session) menu(title string, options []string, back string) (int, error) {
	for {
		s.out.Section(title)
		for i, opt := range options {
			s.out.Printf("%2d. %s\n", i+1, opt)
		}
		s.out.Printf("%2d. %s\n", 0, back)
		s.out.Println()
		raw, err := s.ask("Select an option")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(raw)
		if err == nil && n >= 0 && n <= len(options) {
			return n, nil
		}
		s.out.Warning("Invalid option, try again.")
	}
}

// choose picks one value of an enum. With optional set an empty answer
// yields "" and with current set it keeps current.
func choose[T ~string](s *Session, label string, values []T, current T, optional bool) (T, error) {
	var zero T
	for {
		s.out.Println(label + ":")
		for i, v := range values {
			s.out.Printf("  %d. %s\n", i+1, models.Label(v))
		}
		prompt := "Choice"
		switch {
		case current != "":
			prompt = fmt.Sprintf("Choice [%s]", models.Label(current))
		case optional:
			prompt = "Choice (blank to skip)"
		}
		raw, err := s.ask(prompt)
		if err != nil {
			return zero, err
		}
		if raw == "-" && optional {
			return zero, nil
		}
		if raw == "" {
			if current != "" {
				return current, nil
			}
			if optional {
				return zero, nil
			}
		}
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(values) {
			return values[n-1], nil
		}
		s.out.Warning("Invalid option, try again.")
	}
}
