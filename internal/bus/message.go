package bus

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kubepane/internal/protocol"
)

// Message is the union of everything that travels on the bus.
type Message interface {
	isMessage()
}

// Input is a key or mouse event read from the terminal.
type Input struct {
	Event tea.Msg
}

// Tick is emitted by the ticker producer.
type Tick struct {
	At time.Time
}

// Resize reports a new terminal size.
type Resize struct {
	Width  int
	Height int
}

// Kube carries a protocol request or response.
type Kube struct {
	Msg protocol.Message
}

func (Input) isMessage()  {}
func (Tick) isMessage()   {}
func (Resize) isMessage() {}
func (Kube) isMessage()   {}

func (m Input) String() string  { return fmt.Sprintf("input(%v)", m.Event) }
func (m Tick) String() string   { return "tick(" + m.At.Format("15:04:05.000") + ")" }
func (m Resize) String() string { return fmt.Sprintf("resize(%dx%d)", m.Width, m.Height) }
func (m Kube) String() string   { return fmt.Sprintf("kube(%s %T)", m.Msg.Area(), m.Msg) }

// Kube publishes a protocol request or response.
func (s Sender) Kube(m protocol.Message) {
	s.Send(Kube{Msg: m})
}
