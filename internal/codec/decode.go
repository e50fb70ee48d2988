// Package codec decodes serialized transaction messages into a structure a
// person can audit before signing, and reads and writes transport artifacts.
package codec

import (
	"encoding/hex"

	"github.com/AlexZinkM/offline-signer/internal/errs"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Instruction is one compiled instruction. Data is not interpreted.
type Instruction struct {
	ProgramIDIndex uint16   `json:"programIdIndex"`
	ProgramID      string   `json:"programId"`
	Accounts       []uint16 `json:"accounts"`
	DataHex        string   `json:"data"`
}

// Decoded is the structural view of a message. Accounts keep the message's
// static order and Accounts[0] is the fee payer.
type Decoded struct {
	FeePayer        string        `json:"feePayer"`
	Accounts        []string      `json:"accounts"`
	Signers         []string      `json:"signers"`
	RecentBlockhash string        `json:"recentBlockhash"`
	Instructions    []Instruction `json:"instructions"`

	message *solana.Message
}

// Message returns the parsed message. Never re-serialize it for signing.
func (d *Decoded) Message() *solana.Message {
	return d.message
}

// SignerIndex returns the position of pk among the required signers, or -1.
func (d *Decoded) SignerIndex(pk solana.PublicKey) int {
	for i := 0; i < int(d.message.Header.NumRequiredSignatures) && i < len(d.message.AccountKeys); i++ {
		if d.message.AccountKeys[i].Equals(pk) {
			return i
		}
	}
	return -1
}

// Decode parses raw message bytes. Empty, truncated or trailing input is InvalidEncoding.
func Decode(msg []byte) (*Decoded, error) {
	if len(msg) == 0 {
		return nil, errs.Missing("message")
	}

	var m solana.Message
	decoder := bin.NewBinDecoder(msg)
	if err := m.UnmarshalWithDecoder(decoder); err != nil {
		return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid transaction message")
	}
	if decoder.Remaining() != 0 {
		return nil, errs.Newf(errs.InvalidEncoding, "invalid transaction message: %d trailing bytes", decoder.Remaining())
	}
	if len(m.AccountKeys) == 0 {
		return nil, errs.New(errs.InvalidEncoding, "invalid transaction message: no accounts")
	}
	if int(m.Header.NumRequiredSignatures) > len(m.AccountKeys) {
		return nil, errs.New(errs.InvalidEncoding, "invalid transaction message: more signers than accounts")
	}

	out := &Decoded{
		FeePayer:        m.AccountKeys[0].String(),
		Accounts:        make([]string, len(m.AccountKeys)),
		Signers:         make([]string, 0, m.Header.NumRequiredSignatures),
		RecentBlockhash: m.RecentBlockhash.String(),
		Instructions:    make([]Instruction, 0, len(m.Instructions)),
		message:         &m,
	}
	for i, key := range m.AccountKeys {
		out.Accounts[i] = key.String()
		if i < int(m.Header.NumRequiredSignatures) {
			out.Signers = append(out.Signers, key.String())
		}
	}

	for i, ix := range m.Instructions {
		if int(ix.ProgramIDIndex) >= len(m.AccountKeys) {
			return nil, errs.Newf(errs.InvalidEncoding, "invalid transaction message: instruction %d program index out of range", i)
		}
		for _, a := range ix.Accounts {
			// v0 messages may point past the static keys into lookup tables
			if int(a) >= len(m.AccountKeys) && !m.IsVersioned() {
				return nil, errs.Newf(errs.InvalidEncoding, "invalid transaction message: instruction %d account index out of range", i)
			}
		}
		out.Instructions = append(out.Instructions, Instruction{
			ProgramIDIndex: ix.ProgramIDIndex,
			ProgramID:      m.AccountKeys[ix.ProgramIDIndex].String(),
			Accounts:       ix.Accounts,
			DataHex:        hex.EncodeToString(ix.Data),
		})
	}
	return out, nil
}
