package tui

// Option mutates model configuration before the program starts.
type Option func(*Model)

// WithAuthor sets the author recorded on comments added from the TUI.
func WithAuthor(author string) Option {
	return func(m *Model) {
		m.author = author
	}
}

// WithKeyConfig applies user key overrides.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithClipboard replaces the clipboard writer used by the copy action.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}
