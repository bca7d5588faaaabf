package databases

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	feesModel "schoolku_backend/internals/features/finance/fees/model"
	libraryModel "schoolku_backend/internals/features/library/model"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	userModel "schoolku_backend/internals/features/users/auth/model"
)

var DB *gorm.DB

// =======================
// DATABASE CONNECTOR
// =======================
func ConnectDB() {
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // avoid prepared-statement cache issues behind poolers
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}

	DB = db
	log.Println("✅ Database connected")
}

// TunePool sets connection-pool limits on the underlying sql.DB.
func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("⚠️ TunePool: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
}

// Migrate runs AutoMigrate for every registered model. Order matters:
// referenced tables first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.User{},
		&academicsModel.Class{},
		&academicsModel.Student{},
		&academicsModel.Teacher{},
		&academicsModel.ClassEnrolment{},
		&attendanceModel.StudentAttendance{},
		&feesModel.FeeStructure{},
		&feesModel.FeeInvoice{},
		&feesModel.FeeInvoiceItem{},
		&feesModel.FeePayment{},
		&libraryModel.Book{},
		&libraryModel.LibraryIssue{},
	)
}
