package arena

import (
	"strconv"
	"strings"

	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// DecodeGenome parses an AB genome line into its room list.
//
// The grammar is
//
//	("<" X "," Y "," SIZE ">")* ("|" ("<" X "," Y "," LEN ">")*)?
//
// where X, Y and SIZE are non-negative integers and LEN is signed.
// Leading tokens produce square rooms of side SIZE. Tokens after the
// "|" separator produce corridors: a positive LEN is a horizontal
// corridor of width LEN and height 3, a non-positive LEN a vertical
// corridor of width 3 and height -LEN.
//
// Scanning is purely positional: separator positions are skipped
// without being checked, decoding stops at the first character that
// does not open a token, and anything after it is ignored. A non-digit
// where a digit is required or a token cut short by the end of input
// is a fatal parse error carrying the offending offset.
//
// The returned list preserves encounter order, corridors after plain
// rooms. Later stages are order-sensitive, so this order must not be
// changed.
func DecodeGenome(genome string) ([]Room, error) {
	var rooms []Room
	i := 0

	for i < len(genome) && genome[i] == '<' {
		i++

		originX, next, err := scanNumber(genome, i)
		if err != nil {
			return nil, err
		}
		i = next + 1

		originY, next, err := scanNumber(genome, i)
		if err != nil {
			return nil, err
		}
		i = next + 1

		size, next, err := scanNumber(genome, i)
		if err != nil {
			return nil, err
		}
		i = next + 1

		rooms = append(rooms, Room{
			OriginX: originX,
			OriginY: originY,
			EndX:    originX + size - 1,
			EndY:    originY + size - 1,
		})
	}

	if i < len(genome) && genome[i] == '|' {
		i++

		for i < len(genome) && genome[i] == '<' {
			i++

			originX, next, err := scanNumber(genome, i)
			if err != nil {
				return nil, err
			}
			i = next + 1

			originY, next, err := scanNumber(genome, i)
			if err != nil {
				return nil, err
			}
			i = next + 1

			length, next, err := scanSigned(genome, i)
			if err != nil {
				return nil, err
			}
			i = next + 1

			room := Room{OriginX: originX, OriginY: originY, Corridor: true}
			if length > 0 {
				room.EndX = originX + length - 1
				room.EndY = originY + 2
			} else {
				room.EndX = originX + 2
				room.EndY = originY - length - 1
			}
			rooms = append(rooms, room)
		}
	}

	return rooms, nil
}

// EncodeGenome serializes rooms back into genome form. Plain rooms are
// emitted first, then corridors after a "|" separator, both in list
// order. Only shapes the grammar can express are accepted: square
// plain rooms and corridors with a minor dimension of 3.
func EncodeGenome(rooms []Room) (string, error) {
	var plain, corridors []Room
	for _, r := range rooms {
		if r.Corridor {
			corridors = append(corridors, r)
		} else {
			plain = append(plain, r)
		}
	}

	var b strings.Builder
	for i, r := range plain {
		if r.Width() != r.Height() {
			return "", errs.New(errs.ErrCodeInvalidInput,
				"room %d is %dx%d, the genome grammar only encodes square rooms",
				i, r.Width(), r.Height())
		}
		b.WriteByte('<')
		b.WriteString(strconv.Itoa(r.OriginX))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(r.OriginY))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(r.Width()))
		b.WriteByte('>')
	}

	if len(corridors) > 0 {
		b.WriteByte('|')
		for i, r := range corridors {
			var length int
			switch {
			case r.Height() == 3:
				length = r.Width()
			case r.Width() == 3:
				length = -r.Height()
			default:
				return "", errs.New(errs.ErrCodeInvalidInput,
					"corridor %d is %dx%d, corridors need a minor dimension of 3",
					i, r.Width(), r.Height())
			}
			b.WriteByte('<')
			b.WriteString(strconv.Itoa(r.OriginX))
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(r.OriginY))
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(length))
			b.WriteByte('>')
		}
	}

	return b.String(), nil
}

// scanNumber consumes a run of digits starting at start and returns the
// decoded value and the index of the first unconsumed character.
// Hitting the end of input while a token is still open is an
// unterminated-token error; a non-digit at start is a missing-number
// error. Both carry the byte offset.
func scanNumber(genome string, start int) (value, next int, err error) {
	i := start
	for {
		if i >= len(genome) {
			return 0, 0, errs.New(errs.ErrCodeParseUnterminated,
				"genome ends inside a token at offset %d", i)
		}
		if genome[i] < '0' || genome[i] > '9' {
			break
		}
		i++
	}

	if i == start {
		return 0, 0, errs.New(errs.ErrCodeParseNumber,
			"expected digit at offset %d, found %q", i, genome[i])
	}

	value, convErr := strconv.Atoi(genome[start:i])
	if convErr != nil {
		return 0, 0, errs.Wrap(errs.ErrCodeParseNumber, convErr,
			"invalid number at offset %d", start)
	}
	return value, i, nil
}

// scanSigned consumes an optional leading minus sign followed by a run
// of digits.
func scanSigned(genome string, start int) (value, next int, err error) {
	i := start
	if i >= len(genome) {
		return 0, 0, errs.New(errs.ErrCodeParseUnterminated,
			"genome ends inside a token at offset %d", i)
	}

	negative := false
	if genome[i] == '-' {
		negative = true
		i++
	}

	value, next, err = scanNumber(genome, i)
	if err != nil {
		return 0, 0, err
	}
	if negative {
		value = -value
	}
	return value, next, nil
}
