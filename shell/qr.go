package shell

import (
	"fmt"
	"io"

	"github.com/mdp/qrterminal/v3"
)

// LinkRenderer shows the checkout URL to the customer.
type LinkRenderer interface {
	RenderLink(w io.Writer, url string)
}

// QRRenderer prints a compact terminal QR code followed by the plain link.
type QRRenderer struct{}

func (QRRenderer) RenderLink(w io.Writer, url string) {
	qrterminal.GenerateHalfBlock(url, qrterminal.L, w)
	fmt.Fprintln(w, url)
}
