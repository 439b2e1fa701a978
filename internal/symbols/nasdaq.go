package symbols

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

const (
	nasdaqHost = "ftp.nasdaqtrader.com:21"
	nasdaqFile = "Symboldirectory/nasdaqlisted.txt"
)

// Listing is one row of the exchange symbol directory.
type Listing struct {
	Symbol       string
	SecurityName string
	TestIssue    bool
	ETF          bool
}

// DownloadNasdaqListed retrieves the NASDAQ symbol directory over anonymous FTP.
func DownloadNasdaqListed(timeout time.Duration) ([]Listing, error) {
	c, err := ftp.Dial(nasdaqHost, ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", nasdaqHost, err)
	}
	defer c.Quit()

	if err := c.Login("anonymous", "anonymous"); err != nil {
		return nil, fmt.Errorf("ftp login: %w", err)
	}
	resp, err := c.Retr(nasdaqFile)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", nasdaqFile, err)
	}
	defer resp.Close()

	return ParseListing(resp)
}

// ParseListing parses the pipe-separated nasdaqlisted.txt format. The trailing
// "File Creation Time" summary row is dropped.
func ParseListing(r io.Reader) ([]Listing, error) {
	sc := bufio.NewScanner(r)

	idxSymbol, idxName, idxTest, idxETF := -1, -1, -1, -1
	var listings []Listing
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")

		if idxSymbol < 0 {
			for i, name := range fields {
				switch strings.TrimSpace(name) {
				case "Symbol":
					idxSymbol = i
				case "Security Name":
					idxName = i
				case "Test Issue":
					idxTest = i
				case "ETF":
					idxETF = i
				}
			}
			if idxSymbol < 0 {
				return nil, fmt.Errorf("no Symbol column in listing header %q", line)
			}
			continue
		}

		if strings.HasPrefix(fields[0], "File Creation Time") {
			continue
		}
		if idxSymbol >= len(fields) || strings.TrimSpace(fields[idxSymbol]) == "" {
			continue
		}

		l := Listing{Symbol: strings.TrimSpace(fields[idxSymbol])}
		if idxName >= 0 && idxName < len(fields) {
			l.SecurityName = strings.TrimSpace(fields[idxName])
		}
		if idxTest >= 0 && idxTest < len(fields) {
			l.TestIssue = fields[idxTest] == "Y"
		}
		if idxETF >= 0 && idxETF < len(fields) {
			l.ETF = fields[idxETF] == "Y"
		}
		listings = append(listings, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	return listings, nil
}

// WriteCSV writes listings as a CSV with the Symbol column the fetcher
// consumes. Test issues are excluded unless includeTest is set.
func WriteCSV(path string, listings []Listing, includeTest bool) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Symbol", "Security Name", "ETF"}); err != nil {
		return 0, err
	}
	n := 0
	for _, l := range listings {
		if l.TestIssue && !includeTest {
			continue
		}
		etf := "N"
		if l.ETF {
			etf = "Y"
		}
		if err := w.Write([]string{l.Symbol, l.SecurityName, etf}); err != nil {
			return n, err
		}
		n++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
