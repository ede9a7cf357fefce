package sqlite

import (
	"context"
	"fmt"
)

// LoadFixtures inserts the demo data set: a handful of groups, users with
// each role, some memberships and two conferences. Inserts are idempotent so
// the loader can run against an already seeded store.
func LoadFixtures(ctx context.Context, store *Store) error {
	const fixtures = `
INSERT OR IGNORE INTO groups (name) VALUES
    ('G-1'), ('QA-Automation'), ('DevOps-Night'),
    ('PM-Basic'), ('Java-Pro'), ('Design-UI'), ('HR-Management'),
    ('Cyber-Sec'), ('Group_Limit_20_Char');

INSERT OR IGNORE INTO users (identity, handle, role) VALUES
    (101, 'admin_alex', 'admin'),
    (201, 'user_ivan', 'student'),
    (301, 'teacher_olga', 'teacher'),
    (401, 'student_petro', 'student'),
    (501, 'guest_user', 'student');

INSERT OR IGNORE INTO group_members (user_identity, group_id) VALUES
    (201, 1), (201, 3), (301, 5), (401, 1);

INSERT OR IGNORE INTO conferences (topic, conf_date, conf_time, link, group_id) VALUES
    ('Intro to networks', '25.12.2026', '10:00', 'https://zoom.us/j/101', 1),
    ('Git Flow', '22.12.2026', '12:30', 'https://meet.google.com/aaa', 3);
`
	if _, err := store.sqlDB.ExecContext(ctx, fixtures); err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	return nil
}
