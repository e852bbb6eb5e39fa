// Package console is a line-oriented menu front end over an in-memory task store.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"todo_backend/internal/domain"
	"todo_backend/internal/repository"
	"todo_backend/internal/service"
)

// Tenant is the fixed tenant id every console task is stored under.
const Tenant = "local"

var (
	errInvalidNumber = errors.New("invalid number")
	errInvalidChoice = errors.New("invalid choice")
)

type App struct {
	svc *service.TaskService
}

// New returns an App backed by a fresh in-memory store.
func New() *App {
	return &App{svc: service.NewTaskService(repository.NewMemoryTaskRepository())}
}

// NewWithService returns an App over svc
func NewWithService(svc *service.TaskService) *App {
	return &App{svc: svc}
}

type session struct {
	ctx context.Context
	app *App
	in  *bufio.Scanner
	out io.Writer
}

// Run drives the menu until the user exits, in is exhausted or ctx is done.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s := &session{ctx: ctx, app: a, in: bufio.NewScanner(in), out: out}

	s.println("Welcome to the Todo console!")
	s.println("All tasks are stored in memory and will be lost on exit.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.menu()
		line, ok := s.prompt("\nEnter your choice (1-6): ")
		if !ok {
			s.println("\nGoodbye!")
			return s.in.Err()
		}

		choice, err := strconv.Atoi(line)
		if err != nil {
			s.fail(errInvalidNumber)
			continue
		}

		switch choice {
		case 1:
			err = s.add()
		case 2:
			err = s.list()
		case 3:
			err = s.update()
		case 4:
			err = s.complete()
		case 5:
			err = s.delete()
		case 6:
			s.println("\nThank you for using Todo App. Goodbye!")
			return nil
		default:
			err = errInvalidChoice
		}
		if errors.Is(err, io.EOF) {
			s.println("\nGoodbye!")
			return s.in.Err()
		}
		if err != nil {
			s.fail(err)
		}
	}
}

func (s *session) menu() {
	s.println("\n=== Todo App ===")
	s.println("1. Add Task")
	s.println("2. List Tasks")
	s.println("3. Update Task")
	s.println("4. Mark Complete")
	s.println("5. Delete Task")
	s.println("6. Exit")
}

func (s *session) add() error {
	title, ok := s.prompt("Enter task title: ")
	if !ok {
		return io.EOF
	}
	description, ok := s.prompt("Enter description (optional): ")
	if !ok {
		return io.EOF
	}

	res, err := s.app.svc.Add(s.ctx, Tenant, title, description)
	if err != nil {
		return err
	}
	s.printf("[OK] Task added successfully! (ID: %d)\n", res.ID)
	return nil
}

func (s *session) list() error {
	tasks, err := s.app.svc.List(s.ctx, Tenant, "all")
	if err != nil {
		return err
	}

	s.println("\n=== Your Tasks ===")
	if len(tasks) == 0 {
		s.println("No tasks found.")
		return nil
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	completed := 0
	for _, t := range tasks {
		marker := "[ ]"
		if t.Completed {
			marker = "[X]"
			completed++
		}
		s.printf("[%d] %s %s\n", t.ID, marker, t.Title)
		if t.Description != "" {
			s.printf("    Description: %s\n", t.Description)
		}
		s.println("")
	}

	plural := "s"
	if len(tasks) == 1 {
		plural = ""
	}
	s.printf("Total: %d task%s (%d completed, %d pending)\n", len(tasks), plural, completed, len(tasks)-completed)
	return nil
}

func (s *session) update() error {
	id, err := s.readID()
	if err != nil {
		return err
	}
	title, ok := s.prompt("Enter new title (press Enter to skip): ")
	if !ok {
		return io.EOF
	}
	description, ok := s.prompt("Enter new description (press Enter to skip): ")
	if !ok {
		return io.EOF
	}

	var tp, dp *string
	if title != "" {
		tp = &title
	}
	if description != "" {
		dp = &description
	}

	if _, err := s.app.svc.Update(s.ctx, Tenant, id, tp, dp); err != nil {
		return err
	}
	s.println("[OK] Task updated successfully!")
	return nil
}

func (s *session) complete() error {
	id, err := s.readID()
	if err != nil {
		return err
	}
	res, err := s.app.svc.Complete(s.ctx, Tenant, id)
	if err != nil {
		return err
	}
	s.printf("[OK] Task marked as complete: %q\n", res.Title)
	return nil
}

func (s *session) delete() error {
	id, err := s.readID()
	if err != nil {
		return err
	}
	res, err := s.app.svc.Delete(s.ctx, Tenant, id)
	if err != nil {
		return err
	}
	s.printf("[OK] Task deleted: %q\n", res.Title)
	return nil
}

func (s *session) readID() (int64, error) {
	line, ok := s.prompt("Enter task ID: ")
	if !ok {
		return 0, io.EOF
	}
	id, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, errInvalidNumber
	}
	return id, nil
}

// prompt writes msg and reads one trimmed line. ok is false at end of input.
func (s *session) prompt(msg string) (string, bool) {
	fmt.Fprint(s.out, msg)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) fail(err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, errInvalidNumber):
		s.println("[ERROR] Please enter a valid number.")
	case errors.Is(err, errInvalidChoice):
		s.println("[ERROR] Invalid choice. Please enter 1-6.")
	case domain.IsNotFound(err):
		s.println("[ERROR] Task not found")
	case errors.As(err, &ve) && ve.Field == "fields":
		s.println("[ERROR] Nothing to update")
	case errors.As(err, &ve):
		s.printf("[ERROR] %s\n", ve.Message)
	default:
		s.printf("[ERROR] %v\n", err)
	}
}

func (s *session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
