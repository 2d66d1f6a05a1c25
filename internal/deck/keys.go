package deck

// Key is a logical key name, spelled like KeyboardEvent.key.
type Key string

const (
	KeyRight  Key = "ArrowRight"
	KeyLeft   Key = "ArrowLeft"
	KeyUp     Key = "ArrowUp"
	KeyDown   Key = "ArrowDown"
	KeySpace  Key = " "
	KeyHome   Key = "Home"
	KeyEnd    Key = "End"
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

func isOverviewToggle(k Key) bool { return k == "o" || k == "O" }

func isHelpToggle(k Key) bool { return k == "h" || k == "H" || k == "?" }

func isPluginToggle(k Key) bool { return k == "p" || k == "P" }

// KeyHelp is one line of the keyboard reference shown by the help overlay.
type KeyHelp struct {
	Keys string
	Desc string
}

var normalKeyHelp = []KeyHelp{
	{Keys: "→ ↓ space", Desc: "next slide"},
	{Keys: "← ↑", Desc: "previous slide"},
	{Keys: "home / end", Desc: "first / last slide"},
	{Keys: "o", Desc: "overview"},
	{Keys: "h ?", Desc: "toggle help"},
	{Keys: "p", Desc: "pause / resume timer"},
	{Keys: "esc", Desc: "close help"},
}

var overviewKeyHelp = []KeyHelp{
	{Keys: "← → ↑ ↓", Desc: "move selection"},
	{Keys: "home / end", Desc: "first / last"},
	{Keys: "enter", Desc: "open slide"},
	{Keys: "esc o", Desc: "close overview"},
}
