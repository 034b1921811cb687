package database

import (
	"gorm.io/gorm"

	"github.com/aymen12m12-coder/sareeone1/utils"
)

// Audit triggers feed the order_changes table the change monitor polls.
// MySQL only; on sqlite the controllers record changes directly.
var triggerStatements = []string{
	`CREATE TRIGGER IF NOT EXISTS orders_after_insert
	 AFTER INSERT ON orders FOR EACH ROW
	 INSERT INTO order_changes (table_name, record_id, action_type, changed_at, processed)
	 VALUES ('orders', NEW.id, 'INSERT', NOW(), 0)`,
	`CREATE TRIGGER IF NOT EXISTS orders_after_update
	 AFTER UPDATE ON orders FOR EACH ROW
	 INSERT INTO order_changes (table_name, record_id, action_type, changed_at, processed)
	 VALUES ('orders', NEW.id, 'UPDATE', NOW(), 0)`,
	`CREATE TRIGGER IF NOT EXISTS drivers_after_update
	 AFTER UPDATE ON drivers FOR EACH ROW
	 INSERT INTO order_changes (table_name, record_id, action_type, changed_at, processed)
	 VALUES ('drivers', NEW.id, 'UPDATE', NOW(), 0)`,
}

func ExecuteTriggers(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		utils.InfoLogger.Printf("Skipping audit triggers for %s", db.Dialector.Name())
		return nil
	}

	for _, stmt := range triggerStatements {
		if err := db.Exec(stmt).Error; err != nil {
			utils.ErrorLogger.Printf("Error executing trigger: %v\nStatement: %s", err, stmt)
			continue
		}
	}

	// Verify what actually got installed.
	var triggers []struct {
		Trigger string
		Event   string
		Table   string
		Timing  string
	}

	db.Raw(`
        SELECT
            TRIGGER_NAME as trigger_name,
            EVENT_MANIPULATION as event_type,
            EVENT_OBJECT_TABLE as table_name,
            ACTION_TIMING as timing
        FROM information_schema.triggers
        WHERE TRIGGER_SCHEMA = DATABASE()
    `).Scan(&triggers)

	for _, t := range triggers {
		utils.InfoLogger.Printf("Trigger verified: %s (%s %s on %s)",
			t.Trigger, t.Timing, t.Event, t.Table)
	}

	return nil
}
