package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/scan"
)

// progressPrinter redraws a single status line while scan stages complete
type progressPrinter struct {
	out      io.Writer
	total    int
	name     string
	mu       sync.Mutex
	low      int
	medium   int
	high     int
	updates  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newProgressPrinter(out io.Writer, total int, name string) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		out:     out,
		total:   total,
		name:    name,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	p.wg.Add(1)
	go p.loop()
}

// Increment records one finished stage at the given risk
func (p *progressPrinter) Increment(risk scan.RiskLevel) {
	p.mu.Lock()
	switch risk {
	case scan.RiskHigh:
		p.high++
	case scan.RiskMedium:
		p.medium++
	default:
		p.low++
	}
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", 80))
		p.print()
		fmt.Fprintln(p.out)
	})
}

func (p *progressPrinter) loop() {
	defer p.wg.Done()
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.print()
		case <-ticker.C:
			p.print()
		case <-p.done:
			return
		}
	}
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	low, medium, high := p.low, p.medium, p.high
	completed := low + medium + high
	if completed > p.total {
		p.total = completed
	}
	total := p.total
	p.mu.Unlock()

	percent := (float64(completed) / float64(total)) * 100
	fmt.Fprintf(p.out, "\r[%s] Progress: %d/%d (%.1f%%) Low:%d Medium:%d High:%d",
		p.name, completed, total, percent, low, medium, high)
}
