package solana

import (
	"github.com/AlexZinkM/offline-signer/internal/codec"
	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/model"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Bound is a fully signed wire transaction
type Bound struct {
	Raw       []byte
	Signature solana.Signature // first signature, the transaction id
	Decoded   *codec.Decoded
}

// Bind places each detached signature at its signer's index in target's
// message. Checks per signature, in order: the signer must be a required
// signer of target, the artifact must carry target's exact message bytes and
// the signature must verify over them. Every required signer must be covered.
// The wire form is compact-u16 count, signatures, then the original message
// bytes unchanged.
func Bind(target *model.UnsignedTransaction, signed ...*model.SignedTransaction) (*Bound, error) {
	if len(signed) == 0 {
		return nil, errs.Missing("signature")
	}

	msg, err := codec.MessageBytes(target)
	if err != nil {
		return nil, err
	}
	decoded, err := codec.Decode(msg)
	if err != nil {
		return nil, err
	}

	signatures := make([]solana.Signature, len(decoded.Signers))
	for _, s := range signed {
		pk, err := solana.PublicKeyFromBase58(s.PublicKey)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid signer public key")
		}

		idx := decoded.SignerIndex(pk)
		if idx < 0 {
			return nil, errs.Newf(errs.SignerNotInTransaction, "signer %s is not a required signer of this transaction", pk)
		}
		if s.MessageBase64 != target.MessageBase64 {
			return nil, errs.Newf(errs.InvalidSignature, "signature by %s was produced for a different message", pk)
		}

		sig, err := solana.SignatureFromBase58(s.Signature)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidEncoding, err, "invalid signature encoding")
		}
		if !pk.Verify(msg, sig) {
			return nil, errs.Newf(errs.InvalidSignature, "signature by %s does not verify", pk)
		}
		signatures[idx] = sig
	}

	for i, sig := range signatures {
		if sig.IsZero() {
			return nil, errs.Missing("signature for " + decoded.Signers[i])
		}
	}

	raw := make([]byte, 0, 1+len(signatures)*solana.SignatureLength+len(msg))
	if err := bin.EncodeCompactU16Length(&raw, len(signatures)); err != nil {
		return nil, errors.Wrap(err, "failed to encode signature count")
	}
	for _, sig := range signatures {
		raw = append(raw, sig[:]...)
	}
	raw = append(raw, msg...)

	return &Bound{Raw: raw, Signature: signatures[0], Decoded: decoded}, nil
}
