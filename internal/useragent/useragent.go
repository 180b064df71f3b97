// Package useragent provides the request identity sent to the fuel companies.
package useragent

// Default is a desktop browser User-Agent. Several companies reject requests
// without a browser-like identity.
const Default = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/80.0.3987.149 Safari/537.36"
