// Package wiz implements the local UDP pilot protocol spoken by WiZ smart bulbs.
//
// Every request is a single JSON datagram sent to port 38899 on a fresh socket; a reply,
// when one is expected, is a single datagram read within a short timeout. The package also
// provides broadcast discovery, the Kelvin to RGB color model used to render a bulb's white
// setting, and a debouncing dispatcher for color changes coming from interactive controls.
package wiz
