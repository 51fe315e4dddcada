// Package feed pushes saved proofs to connected admin dashboards over
// socket.io, so a new proof shows up without reloading the list.
package feed

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"jnbvisualizer/core"
)

const proofsRoom = socketio.Room("proofs")

// Feed wraps a socket.io server with a single room for proof events.
type Feed struct {
	io *socketio.Server
}

func New() *Feed {
	opts := socketio.DefaultServerOptions()
	opts.SetPath("/socket.io")
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	ioo := socketio.NewServer(nil, opts)

	ioo.On("connection", func(clients ...any) {
		socket := clients[0].(*socketio.Socket)
		logrus.WithField("socket", socket.Id()).Debug("Feed client connected")

		socket.On("watch-proofs", func(datas ...any) {
			socket.Join(proofsRoom)
		})
		socket.On("disconnect", func(datas ...any) {
			socket.RemoveAllListeners("")
			socket.Disconnect(true)
		})
	})

	return &Feed{io: ioo}
}

// ProofCreated broadcasts a saved proof to every watching dashboard.
func (f *Feed) ProofCreated(p *core.ProofRecord) {
	f.io.To(proofsRoom).Emit("proof:created", p)
}

// Handler returns the HTTP handler to mount at /socket.io/.
func (f *Feed) Handler() http.Handler {
	return f.io.ServeHandler(nil)
}

// Close shuts the socket.io server down.
func (f *Feed) Close() {
	f.io.Close(nil)
}
