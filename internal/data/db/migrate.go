package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/majormatch-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},
		&types.Preferences{},
		&types.BookmarkedMajor{},

		// Assessments
		&types.Assessment{},
		&types.SatisfactionSurvey{},

		// Chat
		&types.ChatSession{},
	)
}

// EnsureIndexes adds the constraints AutoMigrate cannot express.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"fk_user_token_user_id", `
			DO $$ BEGIN
				ALTER TABLE "user_token" ADD CONSTRAINT "fk_user_token_user_id"
				FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE;
			EXCEPTION WHEN duplicate_object THEN NULL; END $$;`},
		{"fk_satisfaction_survey_assessment_id", `
			DO $$ BEGIN
				ALTER TABLE "satisfaction_survey" ADD CONSTRAINT "fk_satisfaction_survey_assessment_id"
				FOREIGN KEY ("assessment_id") REFERENCES "assessment"("id") ON DELETE CASCADE;
			EXCEPTION WHEN duplicate_object THEN NULL; END $$;`},
		{"idx_bookmarked_major_user_major", `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_bookmarked_major_user_major
			ON bookmarked_major(user_id, major_name)
			WHERE deleted_at IS NULL;`},
		{"idx_student_id_digits", `
			DO $$ BEGIN
				ALTER TABLE "user" ADD CONSTRAINT "chk_user_student_id_digits" CHECK (student_id ~ '^[0-9]{9}$');
			EXCEPTION WHEN duplicate_object THEN NULL; END $$;`},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}

// Migrate runs AutoMigrateAll followed by EnsureIndexes.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return fmt.Errorf("postgres automigrate: %w", err)
	}
	return EnsureIndexes(db)
}
