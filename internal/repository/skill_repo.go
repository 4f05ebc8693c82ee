package repository

import (
	"context"
	"database/sql"
	"fmt"

	"autoscuola/internal/db"
)

type SkillRepository struct {
	DB *sql.DB
}

func NewSkillRepository(database *sql.DB) *SkillRepository {
	return &SkillRepository{DB: database}
}

// Upsert writes the student's aggregate skill record, last write wins
// per (student_id, skill_id).
func (r *SkillRepository) Upsert(ctx context.Context, s *db.StudentSkill) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO student_skills (student_id, skill_id, level, status, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (student_id, skill_id)
		DO UPDATE SET level = EXCLUDED.level, status = EXCLUDED.status, updated_at = NOW()`,
		s.StudentID, s.SkillID, s.Level, s.Status)
	if err != nil {
		return fmt.Errorf("error upserting student skill: %w", err)
	}
	return nil
}

func (r *SkillRepository) ListByStudent(ctx context.Context, studentID int64) ([]db.StudentSkill, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT student_id, skill_id, level, status, updated_at
		FROM student_skills WHERE student_id = $1 ORDER BY skill_id`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student skills: %w", err)
	}
	defer rows.Close()

	var skills []db.StudentSkill
	for rows.Next() {
		var s db.StudentSkill
		if err := rows.Scan(&s.StudentID, &s.SkillID, &s.Level, &s.Status, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating skill rows: %w", err)
	}
	return skills, nil
}
