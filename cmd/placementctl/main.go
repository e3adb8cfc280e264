package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"placementcell/internal/app"
	"placementcell/internal/common"
	"placementcell/internal/config"
	"placementcell/internal/domain/user"
	"placementcell/internal/observability"
	"placementcell/internal/repository"
)

const usage = `usage: placementctl <command> [flags]

commands:
  eligible-drives -student <id>    drives the student may apply to today
  candidates -drive <id>           verified students meeting the drive's bar
  pipeline -application <id>       round-by-round progress of an application
  import-students -file <csv>      load a student roster as unverified accounts
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg, err := config.LoadStorage()
	if err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	repos, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer repos.Close(context.Background())

	serviceLogger := observability.NewServiceLogger(logger)
	cli := &commands{
		students:     app.NewStudentService(repos.Students, serviceLogger),
		drives:       app.NewDriveService(repos.Drives, repos.Companies, repos.Students, nil, serviceLogger),
		applications: app.NewApplicationService(repos.Applications, repos.Drives, repos.Companies, repos.Students, cfg.StrictRoundTransitions, serviceLogger),
		out:          os.Stdout,
	}
	if err := cli.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

type commands struct {
	students     *app.StudentService
	drives       *app.DriveService
	applications *app.ApplicationService
	out          io.Writer
}

var operator = user.Identity{SubjectID: app.AdminSubjectID, Role: user.RoleAdmin, Name: "placementctl"}

func (c *commands) run(ctx context.Context, name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	switch name {
	case "eligible-drives":
		studentID := fs.String("student", "", "student id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.eligibleDrives(ctx, common.UUID(*studentID))
	case "candidates":
		driveID := fs.String("drive", "", "drive id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.candidates(ctx, common.UUID(*driveID))
	case "pipeline":
		applicationID := fs.String("application", "", "application id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.pipeline(ctx, common.UUID(*applicationID))
	case "import-students":
		path := fs.String("file", "", "CSV roster")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.importStudents(ctx, *path)
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}

func (c *commands) eligibleDrives(ctx context.Context, studentID common.UUID) error {
	if studentID == "" {
		return fmt.Errorf("-student is required")
	}
	drives, err := c.drives.EligibleForStudent(ctx, studentID)
	if err != nil {
		return err
	}
	c.heading("Eligible drives for %s (%d)", studentID, len(drives))
	table := c.table("Drive", "Role", "CTC", "Min CGPA", "Max Backlogs", "Deadline")
	for _, d := range drives {
		table.Append([]string{
			string(d.ID),
			d.Role,
			d.CTC,
			strconv.FormatFloat(d.MinCGPA, 'f', 2, 64),
			strconv.Itoa(d.MaxBacklogs),
			d.Deadline,
		})
	}
	table.Render()
	return nil
}

func (c *commands) candidates(ctx context.Context, driveID common.UUID) error {
	if driveID == "" {
		return fmt.Errorf("-drive is required")
	}
	students, err := c.drives.EligibleCandidates(ctx, operator, driveID)
	if err != nil {
		return err
	}
	c.heading("Eligible candidates for drive %s (%d)", driveID, len(students))
	table := c.table("Student", "Name", "Roll No", "Branch", "CGPA", "Backlogs")
	for _, s := range students {
		table.Append([]string{
			string(s.ID),
			s.Name,
			s.RollNo,
			s.Branch,
			strconv.FormatFloat(s.CGPA, 'f', 2, 64),
			strconv.Itoa(s.Backlogs),
		})
	}
	table.Render()
	return nil
}

func (c *commands) pipeline(ctx context.Context, applicationID common.UUID) error {
	if applicationID == "" {
		return fmt.Errorf("-application is required")
	}
	record, err := c.applications.Get(ctx, operator, applicationID)
	if err != nil {
		return err
	}
	c.heading("Application %s: %s (current round %d)", record.ID, record.Status, record.CurrentRound+1)
	table := c.table("#", "Round", "Status", "Scheduled", "Completed", "Feedback", "Updated By")
	for _, round := range record.RoundStatuses {
		completed := ""
		if round.CompletedDate != nil {
			completed = round.CompletedDate.Format(time.DateOnly)
		}
		table.Append([]string{
			strconv.Itoa(round.RoundNumber + 1),
			round.RoundName,
			string(round.Status),
			round.ScheduledDate,
			completed,
			round.Feedback,
			round.UpdatedBy,
		})
	}
	table.Render()
	return nil
}

func (c *commands) importStudents(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("-file is required")
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer file.Close()

	rows, err := parseRoster(csv.NewReader(file))
	if err != nil {
		return err
	}
	result, err := c.students.Import(ctx, rows)
	if err != nil {
		return err
	}
	color.Green("Imported %d of %d students", result.Imported, len(rows))
	if len(result.Skipped) > 0 {
		c.heading("Skipped rows (%d)", len(result.Skipped))
		keys := make([]string, 0, len(result.Skipped))
		for key := range result.Skipped {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return rowNumber(keys[i]) < rowNumber(keys[j]) })
		table := c.table("Row", "Reason")
		for _, key := range keys {
			table.Append([]string{key, result.Skipped[key]})
		}
		table.Render()
	}
	return nil
}

func (c *commands) heading(format string, args ...interface{}) {
	fmt.Fprintln(c.out, color.YellowString("\n"+format, args...))
}

func (c *commands) table(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func rowNumber(key string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(key, "row "))
	return n
}
