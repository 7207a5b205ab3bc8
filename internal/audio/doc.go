// Package audio defines the Output capability the bell scheduler plays
// through, plus two implementations: CommandPlayer, which shells out to
// the platform sound utility, and TerminalBell, which writes ASCII BEL
// to a writer. The timer core never synthesizes sound itself.
package audio
