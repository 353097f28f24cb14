package database

import (
	"fmt"
	"time"

	"academy/config"
	"academy/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ErrNotFound is returned by the store when a record does not exist
var ErrNotFound = gorm.ErrRecordNotFound

// DefaultCategories are created on an empty database
var DefaultCategories = []models.Category{
	{Name: "Business Plan", Slug: "business-plan"},
	{Name: "Business Case", Slug: "business-case"},
}

// DefaultStages are created on an empty database, each one lasting stageLength
var DefaultStages = []string{"Registration", "Preliminary", "Semifinal", "Final"}

const stageLength = 30 * 24 * time.Hour

// InitDB initializes the database connection, migrates the models and populates the database with default values if needed
func InitDB() {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=%s",
		config.PostgresHost, config.PostgresPort, config.PostgresUser, config.PostgresDB, config.PostgresPassword, config.PostgresTimeZone)

	gormLogger := logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect database")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		logrus.WithError(err).Fatal("failed to get underlying sql.DB")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = DB.AutoMigrate(
		&models.Category{},
		&models.CompetitionStage{},
		&models.Team{},
		&models.ParticipantProgress{},
		&models.Assignment{},
		&models.Submission{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	Populate(time.Now())
}

// Populate creates the default categories and stages when the tables are empty
func Populate(now time.Time) {
	var countCategory, countStage int64
	DB.Model(&models.Category{}).Count(&countCategory)
	DB.Model(&models.CompetitionStage{}).Count(&countStage)

	if countCategory == 0 {
		categories := make([]models.Category, len(DefaultCategories))
		copy(categories, DefaultCategories)
		if err := DB.Create(&categories).Error; err != nil {
			logrus.WithError(err).Error("failed to create default categories")
		} else {
			logrus.Infof("%d default categories created", len(categories))
		}
	}

	if countStage == 0 {
		stages := DefaultStageSchedule(now)
		if err := DB.Create(&stages).Error; err != nil {
			logrus.WithError(err).Error("failed to create default stages")
		} else {
			logrus.Infof("%d default stages created", len(stages))
		}
	}
}

// DefaultStageSchedule lays the default stages out back to back starting at now
func DefaultStageSchedule(now time.Time) []models.CompetitionStage {
	start := now.Truncate(24 * time.Hour)
	stages := make([]models.CompetitionStage, 0, len(DefaultStages))
	for i, name := range DefaultStages {
		stages = append(stages, models.CompetitionStage{
			Name:      name,
			Order:     i + 1,
			StartDate: start,
			EndDate:   start.Add(stageLength),
		})
		start = start.Add(stageLength)
	}
	return stages
}
