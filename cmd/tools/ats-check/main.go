// cmd/tools/ats-check/main.go
//
// ats-check verifies API credentials against the live ATS: it resolves a job,
// creates a throwaway candidate, and deletes it again. Run it after rotating
// the API key or before pointing a new environment at production.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/config"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/teamtailor"
)

func main() {
	jobID := flag.String("job", "", "job id to resolve (optional)")
	email := flag.String("email", "", "email for the throwaway candidate (required)")
	keep := flag.Bool("keep", false, "keep the throwaway candidate instead of deleting it")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	if *email == "" {
		zapLog.Fatal("missing -email flag")
	}

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	client := teamtailor.NewClient(
		cfg.Teamtailor.APIKey,
		teamtailor.WithBaseURL(cfg.Teamtailor.BaseURL),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *jobID != "" {
		job, err := client.GetJob(ctx, *jobID)
		if err != nil {
			zapLog.Fatal("job lookup failed", zap.String("jobId", *jobID), zap.Error(err))
		}
		zapLog.Info("Job resolved", zap.String("jobId", job.ID), zap.String("title", job.Title))
	}

	candidate, err := client.CreateCandidate(ctx, teamtailor.CandidateInput{
		FirstName: "ATS",
		LastName:  fmt.Sprintf("Check %s", time.Now().Format("2006-01-02 15:04:05")),
		Email:     *email,
		Tags:      []string{"ats-check"},
	})
	if err != nil {
		zapLog.Fatal("candidate create failed", zap.Error(err))
	}
	zapLog.Info("Candidate created", zap.String("candidateId", candidate.ID))

	if *keep {
		zapLog.Info("Keeping candidate as requested", zap.String("candidateId", candidate.ID))
		return
	}

	if err := client.DeleteCandidate(ctx, candidate.ID); err != nil {
		zapLog.Fatal("candidate delete failed", zap.String("candidateId", candidate.ID), zap.Error(err))
	}
	zapLog.Info("Candidate deleted, ATS access verified", zap.String("candidateId", candidate.ID))
}
