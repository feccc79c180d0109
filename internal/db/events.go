package db

// ChangeListener receives resource-change notifications.
// This allows the DB to notify the API layer without depending on it.
type ChangeListener interface {
	ResourceChanged(kind, action string, id int64)
}

// Resource kinds passed to ChangeListener.
const (
	KindTodo       = "todo"
	KindHorizon    = "horizon"
	KindKeyEvent   = "key_event"
	KindHoliday    = "holiday"
	KindMealSlot   = "meal_slot"
	KindIngredient = "ingredient"
)

// Change actions passed to ChangeListener.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// SetChangeListener sets the listener for this database.
func (db *DB) SetChangeListener(l ChangeListener) {
	db.listener = l
}

// notify emits a change notification if a listener is configured.
func (db *DB) notify(kind, action string, id int64) {
	if db.listener != nil {
		db.listener.ResourceChanged(kind, action, id)
	}
}
