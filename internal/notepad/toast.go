package notepad

// ToastVariant is the severity of a toast.
type ToastVariant string

const (
	ToastSuccess ToastVariant = "success"
	ToastError   ToastVariant = "error"
)

// Toast is a user-facing notification about the outcome of an action.
type Toast struct {
	Title   string       `json:"title"`
	Message string       `json:"message"`
	Variant ToastVariant `json:"variant"`
}

// Notifier receives toasts. Notify is called outside the controller lock and
// must not block.
type Notifier interface {
	Notify(Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Toast)

// Notify implements Notifier.
func (f NotifierFunc) Notify(t Toast) { f(t) }

type discardNotifier struct{}

func (discardNotifier) Notify(Toast) {}

func successToast(title, msg string) Toast {
	return Toast{Title: title, Message: msg, Variant: ToastSuccess}
}

func errorToast(msg string) Toast {
	return Toast{Title: "Error", Message: msg, Variant: ToastError}
}

var (
	toastCompleted       = successToast("Note Updated", "Note successfully completed.")
	toastUncompleted     = successToast("Note Updated", "Note successfully uncompleted.")
	toastReminderOn      = successToast("Notification Enabled", "You will be notified about this note.")
	toastReminderOff     = successToast("Notification Disabled", "You will no longer be notified about this note.")
	toastDeleted         = successToast("Deleted", "Note deleted.")
	toastUpdated         = successToast("Success", "Note updated.")
	toastCreated         = successToast("Success", "Note created.")
	toastCompleteFailed  = errorToast("Failed to update note completion status")
	toastReminderOnFail  = errorToast("Failed to enable notification.")
	toastReminderOffFail = errorToast("Failed to disable notification.")
	toastDeleteFailed    = errorToast("Failed to delete note.")
	toastUpdateFailed    = errorToast("Failed to update note.")
	toastCreateFailed    = errorToast("Failed to create note.")
	toastLoadFailed      = errorToast("Failed to load notes.")
)
