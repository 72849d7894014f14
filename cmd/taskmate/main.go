package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/taskmate/internal/config"
	"github.com/christopherklint97/taskmate/internal/estimate"
	"github.com/christopherklint97/taskmate/internal/ics"
	"github.com/christopherklint97/taskmate/internal/notify"
	"github.com/christopherklint97/taskmate/internal/render"
	"github.com/christopherklint97/taskmate/internal/schedule"
	"github.com/christopherklint97/taskmate/internal/store"
	"github.com/christopherklint97/taskmate/internal/task"
)

const lastScheduleKey = "last_schedule"

var rootCmd = &cobra.Command{
	Use:   "taskmate",
	Short: "Task manager with AI-assisted scheduling",
	Long:  "taskmate keeps your tasks locally, imports calendar commitments from ICS files, and schedules open tasks into your free work hours.",
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	RunE:  runList,
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task (and its subtasks) complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task (and its subtasks)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Reorder a task among its siblings",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

var importCmd = &cobra.Command{
	Use:   "import <file-or-url>",
	Short: "Import calendar commitments from an ICS file or URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule open tasks into free time over the next week",
	RunE:  runSchedule,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the last schedule as an ICS file",
	RunE:  runExport,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	addCmd.Flags().StringP("priority", "p", "medium", "Task priority: low, medium, or high")
	addCmd.Flags().StringP("due", "d", "", "Due date, ISO or natural language (\"next friday\")")
	addCmd.Flags().String("parent", "", "Parent task ID to add a subtask under")

	exportCmd.Flags().StringP("output", "o", "", "Output file path")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("TASKMATE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		// End of day, so "due today" does not mean "overdue since midnight".
		eod := t.Add(24*time.Hour - time.Second)
		return &eod, nil
	}
	t, err := naturaldate.Parse(s, time.Now(), naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return nil, fmt.Errorf("parsing due date %q: %w", s, err)
	}
	return &t, nil
}

// resolveTaskID matches a full or prefix task ID against stored tasks.
func resolveTaskID(db *store.DB, id string) (string, error) {
	tasks, err := db.GetTasks()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == id {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, id) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task matching %q", id)
	default:
		return "", fmt.Errorf("ambiguous task ID %q matches %d tasks", id, len(matches))
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")
	priority, _ := cmd.Flags().GetString("priority")
	dueStr, _ := cmd.Flags().GetString("due")
	parent, _ := cmd.Flags().GetString("parent")

	due, err := parseDue(dueStr)
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if parent != "" {
		if parent, err = resolveTaskID(db, parent); err != nil {
			return err
		}
	}

	t := task.Task{
		Title:    title,
		Priority: task.ParsePriority(priority),
		DueDate:  due,
		ParentID: parent,
	}
	if err := db.InsertTask(&t); err != nil {
		return err
	}

	fmt.Printf("Added %s: %s\n", t.ID[:8], t.Title)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tasks, err := db.GetTasks()
	if err != nil {
		return err
	}

	fmt.Print(render.TaskList(tasks))
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	id, err := resolveTaskID(db, args[0])
	if err != nil {
		return err
	}
	if err := db.CompleteTask(id); err != nil {
		return err
	}

	fmt.Printf("Completed %s\n", id[:8])
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	id, err := resolveTaskID(db, args[0])
	if err != nil {
		return err
	}
	if err := db.DeleteTask(id); err != nil {
		return err
	}

	fmt.Printf("Deleted %s\n", id[:8])
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[1])
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	id, err := resolveTaskID(db, args[0])
	if err != nil {
		return err
	}
	return db.MoveTask(id, pos)
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	events, err := ics.Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	if err := db.ReplaceEvents(events); err != nil {
		return err
	}

	fmt.Printf("Imported %d calendar events\n", len(events))
	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tasks, err := db.GetOpenTasks()
	if err != nil {
		return err
	}
	events, err := db.GetEvents()
	if err != nil {
		return err
	}

	logger := newLogger()
	opts := optionsFromConfig(cfg)

	var provider estimate.Provider
	if cfg.AI.APIKey != "" {
		provider = estimate.NewOpenAIProvider(cfg.AI.APIKey, opts.AIModel, opts.AITemperature, logger)
	} else {
		fmt.Fprintln(os.Stderr, "No API key configured; using built-in duration estimates.")
	}

	engine := schedule.NewEngine(estimate.New(provider, logger), logger)
	res := engine.Schedule(context.Background(), tasks, events, opts)

	fmt.Print(render.Schedule(res))

	if res.Feasible && len(res.Scheduled) > 0 {
		data, err := json.Marshal(res.Scheduled)
		if err != nil {
			return fmt.Errorf("encoding schedule: %w", err)
		}
		if err := db.SetState(lastScheduleKey, string(data)); err != nil {
			return fmt.Errorf("saving schedule: %w", err)
		}
		fmt.Println("Run 'taskmate export' to save the schedule as an ICS file.")
	}

	if cfg.Notifications.Enabled {
		notify.Send("taskmate", res.Message)
	}

	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	data, err := db.GetState(lastScheduleKey)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}
	if data == "" {
		return fmt.Errorf("no schedule to export — run 'taskmate schedule' first")
	}

	var scheduled []task.ScheduledTask
	if err := json.Unmarshal([]byte(data), &scheduled); err != nil {
		return fmt.Errorf("decoding schedule: %w", err)
	}

	gen := ics.NewGenerator(newLogger())
	out := gen.Generate(scheduled)
	if out == "" {
		fmt.Println("Nothing to export.")
		return nil
	}

	if output == "" {
		output = ics.Filename(time.Now())
	}
	if err := os.WriteFile(output, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing ICS file: %w", err)
	}

	fmt.Printf("Exported %d events to %s\n", len(scheduled), output)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", path, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, path}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", path)
		return nil
	}
	_, err = process.Wait()
	return err
}

func optionsFromConfig(cfg *config.Config) schedule.Options {
	opts := schedule.DefaultOptions()
	if cfg.Schedule.WorkStartHour != 0 || cfg.Schedule.WorkEndHour != 0 {
		opts.WorkStartHour = cfg.Schedule.WorkStartHour
		opts.WorkEndHour = cfg.Schedule.WorkEndHour
	}
	if cfg.Schedule.MinTaskMinutes != 0 {
		opts.MinTaskMinutes = cfg.Schedule.MinTaskMinutes
	}
	if cfg.Schedule.MaxTaskMinutes != 0 {
		opts.MaxTaskMinutes = cfg.Schedule.MaxTaskMinutes
	}
	opts.IncludeWeekends = cfg.Schedule.IncludeWeekends
	opts.BufferMinutes = cfg.Schedule.BufferMinutes
	if opts.BufferMinutes == 0 {
		// Config defaults already carry 15, so a zero here was set on
		// purpose: schedule back to back.
		opts.BufferMinutes = -1
	}
	if cfg.AI.Model != "" {
		opts.AIModel = cfg.AI.Model
	}
	if cfg.AI.Temperature != 0 {
		opts.AITemperature = cfg.AI.Temperature
	}
	return opts
}
