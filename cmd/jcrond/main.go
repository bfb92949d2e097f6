// Command jcrond is a minimal crontab-reading daemon built on the jcron
// engine, illustrating the "daemon" collaborator spec.md describes only
// through the interfaces it consumes (parse a crontab, poll, exec).
package main

import (
	"bufio"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cronlib/jcron/cron"
	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

type options struct {
	CrontabPath  string        `long:"crontab" env:"JCROND_CRONTAB" description:"Path to the crontab file to read" default:"/etc/crontab"`
	PollInterval time.Duration `long:"poll-interval" env:"JCROND_POLL_INTERVAL" description:"How often to check for due jobs" default:"30s"`
	LogLevel     string        `long:"log-level" env:"JCROND_LOG_LEVEL" description:"Log level" default:"info"`
	Foreground   bool          `long:"foreground" short:"f" description:"Run in the foreground (jcrond never detaches; this only changes the startup log line)"`
}

// cronJob is one parsed crontab line: its compiled pattern plus the shell
// command to run when it matches.
type cronJob struct {
	schedule string
	command  string
	pattern  *cron.Pattern
	lastRun  time.Time
}

func setupLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("unknown log level %s: %v", level, err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// parseCrontabLine parses one non-comment, non-blank crontab line of the
// form "minute hour day month weekday command...". Unlike a traditional
// crontab, jcrond always runs as the current user: there is no
// system-crontab user column to disambiguate.
func parseCrontabLine(line string) (*cronJob, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil, newMalformedLineError(line)
	}

	schedule := strings.Join(fields[:5], " ")
	command := strings.Join(fields[5:], " ")

	pattern, err := cron.Parse("0 " + schedule)
	if err != nil {
		return nil, err
	}

	return &cronJob{schedule: schedule, command: command, pattern: pattern}, nil
}

func newMalformedLineError(line string) error {
	return &malformedLineError{line: line}
}

type malformedLineError struct{ line string }

func (e *malformedLineError) Error() string {
	return "malformed crontab line: " + e.line
}

func loadCrontab(path string) ([]*cronJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var jobs []*cronJob
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		job, err := parseCrontabLine(line)
		if err != nil {
			logrus.Warnf("skipping crontab line: %v", err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, scanner.Err()
}

func executeJob(job *cronJob) {
	logrus.Infof("executing job: %s", job.command)
	cmd := exec.Command("/bin/sh", "-c", job.command)
	cmd.Stdout = logrus.StandardLogger().WriterLevel(logrus.InfoLevel)
	cmd.Stderr = logrus.StandardLogger().WriterLevel(logrus.WarnLevel)
	if err := cmd.Run(); err != nil {
		logrus.Warnf("job exited with error: %v", err)
	}
}

func checkJobs(jobs []*cronJob, now time.Time) {
	for _, job := range jobs {
		ok, err := cron.Matches(now.Unix(), job.pattern)
		if err != nil {
			logrus.Errorf("error matching job %q: %v", job.schedule, err)
			continue
		}
		if !ok {
			continue
		}
		// Avoid re-running the same job more than once in the same minute.
		if !job.lastRun.IsZero() && now.Truncate(time.Minute).Equal(job.lastRun.Truncate(time.Minute)) {
			continue
		}
		go executeJob(job)
		job.lastRun = now
	}
}

func main() {
	opts := &options{}
	parser := flags.NewParser(opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if _, ok := err.(*flags.Error); ok {
			os.Exit(1)
		}
		logrus.Fatalf("error parsing flags: %v", err)
	}
	setupLogging(opts.LogLevel)

	jobs, err := loadCrontab(opts.CrontabPath)
	if err != nil {
		logrus.Fatalf("failed to load crontab %s: %v", opts.CrontabPath, err)
	}
	logrus.Infof("loaded %d cron jobs from %s", len(jobs), opts.CrontabPath)

	if opts.Foreground {
		logrus.Info("jcrond starting in foreground mode")
	} else {
		logrus.Info("starting jcrond")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case s := <-sig:
			switch s {
			case syscall.SIGHUP:
				logrus.Info("reloading crontab")
				reloaded, err := loadCrontab(opts.CrontabPath)
				if err != nil {
					logrus.Errorf("failed to reload crontab: %v", err)
					continue
				}
				jobs = reloaded
			default:
				logrus.Info("jcrond shutting down")
				return
			}
		case now := <-ticker.C:
			checkJobs(jobs, now)
		}
	}
}
