package controller

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"kubepane/internal/bus"
	"kubepane/internal/tui/model"
	"kubepane/pkg/logging"
)

const controllerSubsystem = "TUI"

// Update is the central message routing function. Terminal input is not
// handled here directly: it is published onto the bus and acted upon when it
// comes back, so input and cluster data are consumed in one order.
func Update(msg tea.Msg, m *model.Model) (*model.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// ctrl+c must work even when the bus is backed up.
		if msg.String() == "ctrl+c" {
			return quit(m)
		}
		m.Sender.Send(bus.Input{Event: msg})
		return m, nil

	case tea.MouseMsg:
		m.Sender.Send(bus.Input{Event: msg})
		return m, nil

	case tea.WindowSizeMsg:
		m.Sender.Send(bus.Resize{Width: msg.Width, Height: msg.Height})
		return m, nil

	case model.BusMsg:
		return handleBusMsg(m, msg)

	case model.BusClosedMsg:
		if msg.Err != nil && !errors.Is(msg.Err, bus.ErrClosed) {
			logging.Debug(controllerSubsystem, "bus consumer stopped: %v", msg.Err)
		}
		return quit(m)

	case model.NewLogEntryMsg:
		model.AddRawLineToActivityLog(m, msg.Entry.String())
		return m, model.ListenForLogs(m.LogChannel)

	case model.LogChannelClosedMsg:
		return m, nil

	case model.ClearStatusBarMsg:
		m.ClearStatusMessage(msg.Seq)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func handleBusMsg(m *model.Model, msg model.BusMsg) (*model.Model, tea.Cmd) {
	next := model.WaitForBus(m.Ctx, m.Bus)

	m.Dispatcher.Dispatch(msg.Msg)

	var cmd tea.Cmd
	switch in := msg.Msg.(type) {
	case bus.Input:
		m, cmd = handleInput(m, in.Event)
	case bus.Resize:
		m.Width, m.Height = in.Width, in.Height
	}
	m.SyncDetail()

	if m.CurrentAppMode == model.ModeQuitting {
		return m, cmd
	}
	return m, tea.Batch(cmd, next)
}

func handleInput(m *model.Model, ev tea.Msg) (*model.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case tea.KeyMsg:
		return handleKeyMsg(m, ev)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.DetailViewport, cmd = m.DetailViewport.Update(ev)
		return m, cmd
	}
	return m, nil
}

func quit(m *model.Model) (*model.Model, tea.Cmd) {
	m.CurrentAppMode = model.ModeQuitting
	m.QuittingMessage = "Stopping workers..."
	return m, tea.Quit
}

func statusFor(m *model.Model, msg string, t model.MessageType) tea.Cmd {
	return m.SetStatusMessage(msg, t, 3*time.Second)
}
