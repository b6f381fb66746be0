// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}

// Format selects the record encoding of a handler.
type Format int

const (
	FormatTerminal Format = iota
	FormatJSON
	FormatLogfmt
)

// NewHandler returns a handler writing records at or above lvl to wr.
// Colour is only applied to the terminal format. A *slog.LevelVar may be
// passed to change the level at runtime.
func NewHandler(wr io.Writer, format Format, lvl slog.Leveler, useColor bool) slog.Handler {
	var base slog.Handler
	switch format {
	case FormatJSON:
		base = ethlog.JSONHandler(wr)
	case FormatLogfmt:
		base = ethlog.LogfmtHandler(wr)
	default:
		base = ethlog.NewTerminalHandler(wr, useColor)
	}
	glogger := ethlog.NewGlogHandler(base)
	glogger.Verbosity(LevelTrace)
	return &levelHandler{Handler: glogger, lvl: lvl}
}

type levelHandler struct {
	slog.Handler
	lvl slog.Leveler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.Handler.Enabled(ctx, level)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithAttrs(attrs), lvl: h.lvl}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithGroup(name), lvl: h.lvl}
}
