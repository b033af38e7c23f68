// Command board2svg renders a FEN position to an SVG board diagram, used
// to eyeball positions while debugging move generation and search.
package main

import (
	"flag"
	"os"

	"github.com/ajstarks/svgo"
	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/types"
)

const squareSize = 64

func main() {
	fen := flag.String("fen", board.StartFEN, "position to render, as FEN")
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	b, err := board.FromFEN(*fen)
	if err != nil {
		os.Stderr.WriteString("invalid FEN: " + err.Error() + "\n")
		os.Exit(1)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			os.Stderr.WriteString(err.Error() + "\n")
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	canvas := svg.New(w)
	size := squareSize * 8
	canvas.Start(size, size)
	drawSquares(canvas)
	drawPieces(canvas, b)
	canvas.End()
}

func drawSquares(canvas *svg.SVG) {
	light, dark := "#eeeed2", "#769656"
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			fill := light
			if (rank+file)%2 == 0 {
				fill = dark
			}
			x := file * squareSize
			y := (7 - rank) * squareSize
			canvas.Rect(x, y, squareSize, squareSize, "fill:"+fill)
		}
	}
}

func drawPieces(canvas *svg.SVG, b *board.Board) {
	for sq := 0; sq < 64; sq++ {
		p := b.PieceAt(types.Square(sq))
		if p == types.NoPiece {
			continue
		}
		file := types.Square(sq).File()
		rank := types.Square(sq).Rank()
		x := file*squareSize + squareSize/2
		y := (7-rank)*squareSize + squareSize/2 + 8

		style := "text-anchor:middle;font-size:36px;font-family:serif"
		canvas.Text(x, y, string(p.Symbol()), style)
	}
}
