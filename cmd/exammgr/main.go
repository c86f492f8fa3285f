package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haise314/exam-management-system/internal/models"
	"github.com/haise314/exam-management-system/internal/repository"
	"github.com/haise314/exam-management-system/pkg/config"
	"github.com/haise314/exam-management-system/pkg/database"
	"github.com/haise314/exam-management-system/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "exammgr",
		Short: "Exam management backend for trainee assessment",
	}
	root.AddCommand(migrateCmd(), seedCmd())
	return root
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logr, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()
			defer logr.Sync() //nolint:errcheck

			if err := repository.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			logr.Info("schema applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Apply the schema and insert demonstration records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logr, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()
			defer logr.Sync() //nolint:errcheck

			if err := repository.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			if err := seed(cmd.Context(), db); err != nil {
				return err
			}
			logr.Info("seed data inserted")
			return nil
		},
	}
}

func setup() (*zap.Logger, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "error", err)
	}
	return logr, db, nil
}

func seed(ctx context.Context, db *sqlx.DB) error {
	trainers := repository.NewTrainerRepository(db)
	batches := repository.NewBatchRepository(db)
	trainees := repository.NewTraineeRepository(db)
	exams := repository.NewExamRepository(db)
	questions := repository.NewQuestionRepository(db)

	trainer := &models.Trainer{
		Name:          "R. Santos",
		ClassAssigned: strPtr("Welding NC II"),
		HireDate:      time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := trainers.Create(ctx, trainer); err != nil {
		return err
	}

	batch := &models.Batch{
		BatchYear:        "2026",
		NumTrainees:      2,
		TrainingDuration: "6 months",
		TrainerID:        &trainer.ID,
	}
	if err := batches.Create(ctx, batch); err != nil {
		return err
	}

	for _, t := range []*models.Trainee{
		{Name: "J. Dela Cruz", IDNo: "TR-2026-001", BatchID: &batch.ID, BatchYear: batch.BatchYear, Status: models.TraineeStatusActive},
		{Name: "M. Reyes", IDNo: "TR-2026-002", BatchID: &batch.ID, BatchYear: batch.BatchYear, Status: models.TraineeStatusActive},
	} {
		if err := trainees.Create(ctx, t); err != nil {
			return err
		}
	}

	exam := &models.Exam{
		Title:            "Safety Fundamentals",
		ModuleNo:         "MOD-01",
		NumItems:         4,
		TimeLimitMinutes: 30,
		BatchID:          &batch.ID,
		Status:           models.ExamStatusActive,
	}
	if err := exams.Create(ctx, exam); err != nil {
		return err
	}

	for _, q := range []*models.Question{
		{
			ExamID:        exam.ID,
			QuestionText:  "Which color identifies a mandatory safety sign?",
			OptionA:       "Blue",
			OptionB:       "Red",
			OptionC:       "Green",
			OptionD:       "Yellow",
			CorrectAnswer: "A",
			Points:        1,
		},
		{
			ExamID:        exam.ID,
			QuestionText:  "What does PPE stand for?",
			OptionA:       "Personal Protective Equipment",
			OptionB:       "Primary Prevention Effort",
			OptionC:       "Protective Plant Engineering",
			OptionD:       "Public Protection Enforcement",
			CorrectAnswer: "A",
			Points:        1,
		},
		{
			ExamID:        exam.ID,
			QuestionText:  "Which class of fire involves electrical equipment?",
			OptionA:       "Class A",
			OptionB:       "Class B",
			OptionC:       "Class C",
			OptionD:       "Class D",
			CorrectAnswer: "C",
			Points:        1,
		},
		{
			ExamID:        exam.ID,
			QuestionText:  "When should a safety harness be inspected?",
			OptionA:       "Monthly",
			OptionB:       "Before each use",
			OptionC:       "Annually",
			OptionD:       "Only after a fall",
			CorrectAnswer: "B",
			Points:        1,
		},
	} {
		if err := questions.Create(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
