// ABOUTME: confhub-admin subcommands: login, registrations, speakers, sessions, schedule, analytics
// ABOUTME: Each command is a thin wrapper over one or two internal/client calls

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389/confhub/internal/conference"
)

func (a *app) loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with the admin password and save the token",
		Long:  "Log in with the admin password. Without --password the password is read from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(a.out, "Admin password: ")
				line, err := bufio.NewReader(a.in).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password cannot be empty")
			}

			if _, err := a.client.AdminLogin(cmd.Context(), password); err != nil {
				return err
			}
			a.success("Logged in to %s", a.url)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(); err != nil {
				return err
			}
			a.success("Logged out")
			return nil
		},
	}
}

func (a *app) registerCmd() *cobra.Command {
	var req conference.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an attendee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.client.Register(cmd.Context(), req.Normalize())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(reg)
			}
			a.success("Registered %s <%s> (id %s)", reg.Name, reg.Email, reg.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Designation, "designation", "", "Designation, e.g. \"Software Engineer\"")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("designation")
	return cmd
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the number of registrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client.RegistrationCount(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(conference.CountResponse{Count: n})
			}
			fmt.Fprintln(a.out, n)
			return nil
		},
	}
}

func (a *app) attendeesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attendees [id]",
		Short: "List attendees, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			if len(args) == 1 {
				reg, err := a.client.Attendee(cmd.Context(), args[0])
				if err != nil {
					return apiError(err)
				}
				if a.jsonOut {
					return a.printJSON(reg)
				}
				t := newTable(a.out, "FIELD", "VALUE")
				t.row("ID", reg.ID)
				t.row("Name", reg.Name)
				t.row("Email", reg.Email)
				t.row("Designation", reg.Designation)
				t.row("Registered", formatDate(reg.CreatedAt))
				return t.flush()
			}

			regs, err := a.client.Attendees(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(regs)
			}
			if len(regs) == 0 {
				a.empty("attendees")
				return nil
			}
			t := newTable(a.out, "ID", "NAME", "EMAIL", "DESIGNATION", "REGISTERED")
			for _, r := range regs {
				t.row(r.ID, r.Name, r.Email, r.Designation, formatDate(r.CreatedAt))
			}
			return t.flush()
		},
	}
}

// speakerFlags binds the editable speaker fields to a command.
type speakerFlags struct {
	name, bio, image, linkedin, twitter string
}

func (f *speakerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Speaker name")
	cmd.Flags().StringVar(&f.bio, "bio", "", "Bio (Markdown)")
	cmd.Flags().StringVar(&f.image, "image", "", "Image URL")
	cmd.Flags().StringVar(&f.linkedin, "linkedin", "", "LinkedIn URL")
	cmd.Flags().StringVar(&f.twitter, "twitter", "", "Twitter URL")
}

// apply copies the flags the user set onto sp.
func (f *speakerFlags) apply(cmd *cobra.Command, sp *conference.Speaker) {
	set := cmd.Flags().Changed
	if set("name") {
		sp.Name = f.name
	}
	if set("bio") {
		sp.Bio = f.bio
	}
	if set("image") {
		sp.ImageURL = f.image
	}
	if set("linkedin") {
		sp.LinkedInURL = f.linkedin
	}
	if set("twitter") {
		sp.TwitterURL = f.twitter
	}
}

func (a *app) speakersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speakers",
		Short: "Manage speakers",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List speakers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			speakers, err := a.client.Speakers(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(speakers)
			}
			if len(speakers) == 0 {
				a.empty("speakers")
				return nil
			}
			t := newTable(a.out, "ID", "NAME", "BIO")
			for _, sp := range speakers {
				t.row(sp.ID, sp.Name, orDash(truncate(sp.Bio, 60)))
			}
			return t.flush()
		},
	}

	var createFlags speakerFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a speaker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			var sp conference.Speaker
			createFlags.apply(cmd, &sp)
			sp = sp.Normalize()
			if err := sp.Validate(); err != nil {
				return err
			}
			created, err := a.client.CreateSpeaker(cmd.Context(), sp)
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(created)
			}
			a.success("Created speaker %s (id %s)", created.Name, created.ID)
			return nil
		},
	}
	createFlags.bind(create)
	_ = create.MarkFlagRequired("name")

	var updateFlags speakerFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a speaker; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			speakers, err := a.client.Speakers(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			var current *conference.Speaker
			for i := range speakers {
				if speakers[i].ID == args[0] {
					current = &speakers[i]
				}
			}
			if current == nil {
				return fmt.Errorf("speaker %s not found", args[0])
			}

			updateFlags.apply(cmd, current)
			sp := current.Normalize()
			if err := sp.Validate(); err != nil {
				return err
			}
			updated, err := a.client.UpdateSpeaker(cmd.Context(), args[0], sp)
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(updated)
			}
			a.success("Updated speaker %s", updated.Name)
			return nil
		},
	}
	updateFlags.bind(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a speaker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := a.client.DeleteSpeaker(cmd.Context(), args[0]); err != nil {
				return apiError(err)
			}
			a.success("Deleted speaker %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}

// sessionFlags binds the editable session fields to a command.
type sessionFlags struct {
	title, description, time, duration string
	speakers                           []string
}

func (f *sessionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Session title")
	cmd.Flags().StringVar(&f.description, "description", "", "Description (Markdown)")
	cmd.Flags().StringVar(&f.time, "time", "", "Start time, e.g. \"09:00 AM\"")
	cmd.Flags().StringVar(&f.duration, "duration", "", "Duration, e.g. \"45 min\"")
	cmd.Flags().StringSliceVar(&f.speakers, "speaker", nil, "Speaker ID (repeatable, or comma separated)")
}

func (f *sessionFlags) apply(cmd *cobra.Command, s *conference.Session) {
	set := cmd.Flags().Changed
	if set("title") {
		s.Title = f.title
	}
	if set("description") {
		s.Description = f.description
	}
	if set("time") {
		s.Time = f.time
	}
	if set("duration") {
		s.Duration = f.duration
	}
	if set("speaker") {
		s.SpeakerIDs = f.speakers
	}
}

func (a *app) sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage sessions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.client.Sessions(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(sessions)
			}
			if len(sessions) == 0 {
				a.empty("sessions")
				return nil
			}
			speakers, err := a.client.Speakers(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			t := newTable(a.out, "ID", "TIME", "TITLE", "DURATION", "SPEAKERS")
			for _, s := range sessions {
				names := strings.Join(conference.SpeakerNames(s.SpeakerIDs, speakers), ", ")
				t.row(s.ID, s.Time, s.Title, orDash(s.Duration), orDash(names))
			}
			return t.flush()
		},
	}

	var createFlags sessionFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			var s conference.Session
			createFlags.apply(cmd, &s)
			s = s.Normalize()
			if err := s.Validate(); err != nil {
				return err
			}
			created, err := a.client.CreateSession(cmd.Context(), s)
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(created)
			}
			a.success("Created session %s (id %s)", created.Title, created.ID)
			return nil
		},
	}
	createFlags.bind(create)
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("time")

	var updateFlags sessionFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a session; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			sessions, err := a.client.Sessions(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			var current *conference.Session
			for i := range sessions {
				if sessions[i].ID == args[0] {
					current = &sessions[i]
				}
			}
			if current == nil {
				return fmt.Errorf("session %s not found", args[0])
			}

			updateFlags.apply(cmd, current)
			s := current.Normalize()
			if err := s.Validate(); err != nil {
				return err
			}
			updated, err := a.client.UpdateSession(cmd.Context(), args[0], s)
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(updated)
			}
			a.success("Updated session %s", updated.Title)
			return nil
		},
	}
	updateFlags.bind(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := a.client.DeleteSession(cmd.Context(), args[0]); err != nil {
				return apiError(err)
			}
			a.success("Deleted session %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func (a *app) scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show sessions with their speakers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := a.client.Schedule(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(schedule)
			}
			if len(schedule) == 0 {
				a.empty("sessions")
				return nil
			}
			for _, s := range schedule {
				headerColor.Fprintf(a.out, "%s  %s", s.Time, s.Title)
				if s.Duration != "" {
					mutedColor.Fprintf(a.out, " (%s)", s.Duration)
				}
				fmt.Fprintln(a.out)
				for _, sp := range s.Speakers {
					fmt.Fprintf(a.out, "    %s\n", sp.Name)
				}
			}
			return nil
		},
	}
}

func (a *app) analyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show registrations by designation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			breakdown, err := a.client.DesignationBreakdown(cmd.Context())
			if err != nil {
				return apiError(err)
			}
			if a.jsonOut {
				return a.printJSON(breakdown)
			}
			shares := conference.Shares(breakdown)
			if len(shares) == 0 {
				a.empty("registrations")
				return nil
			}
			total := 0
			t := newTable(a.out, "DESIGNATION", "COUNT", "SHARE", "")
			for _, s := range shares {
				total += s.Count
				t.row(s.Designation, s.Count, fmt.Sprintf("%.1f%%", s.Percent), bar(s.Percent))
			}
			if err := t.flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\nTotal: %d\n", total)
			return nil
		},
	}
}
