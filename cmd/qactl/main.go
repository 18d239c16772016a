// Command qactl is a terminal client for the classroom Q&A API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/client"
	"github.com/yigit/classqa/internal/pkg/helpers"
	"github.com/yigit/classqa/internal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "qactl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qactl",
		Usage: "ask and follow classroom questions from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Value: "http://localhost:8080", EnvVars: []string{"QACTL_SERVER"}, Usage: "API base URL"},
			&cli.StringFlag{Name: "session-file", Value: defaultSessionFile(), EnvVars: []string{"QACTL_SESSION"}, Usage: "where the login session is kept"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log API calls"},
		},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "role", Value: "STUDENT", Usage: "STUDENT or TEACHER"},
					&cli.StringFlag{Name: "nickname"},
					&cli.BoolFlag{Name: "show-nickname"},
				},
				Action: registerAction,
			},
			{
				Name:   "login",
				Usage:  "log in and store the session",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "email", Required: true}, &cli.StringFlag{Name: "password", Required: true}},
				Action: loginAction,
			},
			{
				Name:   "lectures",
				Usage:  "list lectures",
				Action: lecturesAction,
			},
			{
				Name:  "questions",
				Usage: "list questions",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "lecture"},
					&cli.StringFlag{Name: "tags", Usage: "comma separated tag ids, any of which may match"},
					&cli.StringFlag{Name: "resolved", Usage: "true or false"},
				},
				Action: questionsAction,
			},
			{
				Name:  "watch",
				Usage: "refresh a lecture's questions until interrupted",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "lecture", Required: true},
					&cli.DurationFlag{Name: "interval", Value: client.DefaultPollInterval},
				},
				Action: watchAction,
			},
		},
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".qactl-session.json"
	}
	return filepath.Join(dir, "qactl", "session.json")
}

func newClient(c *cli.Context) *client.Client {
	lgr := zerolog.Nop()
	if c.Bool("verbose") {
		lgr = logger.New(logger.Config{Level: logger.DebugLevel, Pretty: true, Output: os.Stderr})
	}
	return client.New(c.String("server"), client.WithLogger(lgr))
}

func saveSession(c *cli.Context, s *client.Session) error {
	path := c.String("session-file")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func loadSession(c *cli.Context) (*client.Session, error) {
	data, err := os.ReadFile(c.String("session-file"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.New("not logged in; run qactl login first")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var s client.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &s, nil
}

func registerAction(c *cli.Context) error {
	req := dto.RegisterRequest{
		Email:    c.String("email"),
		Password: c.String("password"),
		Name:     c.String("name"),
		Role:     c.String("role"),
	}
	if c.IsSet("nickname") {
		nickname := c.String("nickname")
		req.Nickname = &nickname
	}
	if c.IsSet("show-nickname") {
		show := c.Bool("show-nickname")
		req.ShowNickname = &show
	}

	session, err := newClient(c).Register(c.Context, req)
	if err != nil {
		return err
	}
	if err := saveSession(c, session); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "registered %s (%s)\n", session.User.Email, session.User.Role)
	return nil
}

func loginAction(c *cli.Context) error {
	session, err := newClient(c).Login(c.Context, c.String("email"), c.String("password"))
	if err != nil {
		return err
	}
	if err := saveSession(c, session); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "logged in as %s (%s)\n", session.User.Name, session.User.Role)
	return nil
}

func lecturesAction(c *cli.Context) error {
	session, err := loadSession(c)
	if err != nil {
		return err
	}
	lectures, err := newClient(c).ListLectures(c.Context, session)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTEACHER\tQUESTIONS")
	for _, l := range lectures {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", l.ID, l.Name, l.Teacher.Name, l.QuestionCount)
	}
	return tw.Flush()
}

func questionQuery(c *cli.Context) (client.QuestionQuery, error) {
	q := client.QuestionQuery{LectureID: c.Int64("lecture")}
	tags, err := helpers.ParseIDList(c.String("tags"), "tags")
	if err != nil {
		return q, err
	}
	q.TagIDs = tags
	if raw := strings.TrimSpace(c.String("resolved")); raw != "" {
		switch raw {
		case "true":
			v := true
			q.Resolved = &v
		case "false":
			v := false
			q.Resolved = &v
		default:
			return q, fmt.Errorf("--resolved must be true or false")
		}
	}
	return q, nil
}

func questionsAction(c *cli.Context) error {
	session, err := loadSession(c)
	if err != nil {
		return err
	}
	q, err := questionQuery(c)
	if err != nil {
		return err
	}
	questions, err := newClient(c).ListQuestions(c.Context, session, q)
	if err != nil {
		return err
	}
	printQuestions(c.App.Writer, questions)
	return nil
}

func watchAction(c *cli.Context) error {
	session, err := loadSession(c)
	if err != nil {
		return err
	}
	poller := client.NewPoller(newClient(c), session, client.QuestionQuery{LectureID: c.Int64("lecture")}, c.Duration("interval"))
	poller.Run(c.Context, func(questions []dto.QuestionResponse) {
		fmt.Fprintf(c.App.Writer, "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
		printQuestions(c.App.Writer, questions)
	})
	return nil
}

func printQuestions(w io.Writer, questions []dto.QuestionResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tAUTHOR\tANSWERS\tTAGS\tTITLE")
	for _, q := range questions {
		status := "open"
		if q.Resolved {
			status = "resolved"
		}
		tags := make([]string, 0, len(q.Tags))
		for _, t := range q.Tags {
			tags = append(tags, t.Name)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", q.ID, status, q.Author.Name, len(q.Answers), strings.Join(tags, ","), q.Title)
	}
	tw.Flush()
}
