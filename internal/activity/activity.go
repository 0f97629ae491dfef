// Package activity merges the bot's two record streams, signals and
// orders, into one chronological feed.
package activity

import (
	"fmt"
	"sort"
	"time"

	"botwatch/pkg/botapi"
)

// Kind tags the origin of a feed entry.
type Kind string

const (
	KindSignal Kind = "SIGNAL"
	KindOrder  Kind = "ORDER"
)

// Entry is one line of the merged feed.
type Entry struct {
	Time    time.Time
	Kind    Kind
	Message string
	Status  string
}

// Merge combines signals and orders into a single feed sorted most recent
// first. The sort is stable, so records sharing a timestamp keep their
// input encounter order (signals before orders, each stream in received
// order). The whole feed is rebuilt from scratch every refresh; no merge
// state survives between calls.
func Merge(signals []botapi.Signal, orders []botapi.HistoricalOrder) []Entry {
	entries := make([]Entry, 0, len(signals)+len(orders))

	for _, s := range signals {
		entries = append(entries, Entry{
			Time:    s.ReceivedAt.Time,
			Kind:    KindSignal,
			Message: signalMessage(s),
			Status:  s.Status,
		})
	}
	for _, o := range orders {
		entries = append(entries, Entry{
			Time:    o.CreatedAt.Time,
			Kind:    KindOrder,
			Message: orderMessage(o),
			Status:  o.Status,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.After(entries[j].Time)
	})

	return entries
}

func signalMessage(s botapi.Signal) string {
	qty := s.Quantity
	if qty == "" {
		qty = "?"
	}
	return fmt.Sprintf("%s %s %s", s.Action, qty, s.Ticker)
}

func orderMessage(o botapi.HistoricalOrder) string {
	if o.FillPrice != nil {
		return fmt.Sprintf("%s %g %s @ %.2f", o.Action, o.Quantity, o.Ticker, *o.FillPrice)
	}
	return fmt.Sprintf("%s %g %s", o.Action, o.Quantity, o.Ticker)
}
