package drbg

import "crypto/cipher"

// state is a working copy of the mutable part of a DRBG. Operations build
// the next state in a state value and commit it only once every step has
// succeeded, so a failed call leaves the DRBG untouched.
type state struct {
	block cipher.Block
	key   []byte
	v     Counter
}

func (d *DRBG) current() state {
	return state{block: d.block, key: d.key, v: CounterFromBytes(d.v.b)}
}

func (d *DRBG) commit(s state) {
	d.block = s.block
	d.key = s.key
	d.v = s.v
}

// update implements CTR_DRBG_Update (SP 800-90A 10.2.1.2).
func (d *DRBG) update(s *state, providedData []byte) error {
	if err := checkSeed(providedData); err != nil {
		return err
	}

	// 1) temp = Null.
	// 2) While len(temp) < seedlen: V = (V+1) mod 2^blocklen,
	//    temp = temp || Block_Encrypt(Key, V).
	temp := make([]byte, SeedLen)
	for off := 0; off < SeedLen; off += BlockLen {
		s.v.Increment()
		s.block.Encrypt(temp[off:off+BlockLen], s.v.b)
	}

	// 3) temp = leftmost(temp, seedlen) is a no-op: BlockLen divides SeedLen.
	// 4) temp = temp XOR provided_data.
	for i := range temp {
		temp[i] ^= providedData[i]
	}

	// 5) Key = leftmost(temp, keylen). 6) V = rightmost(temp, blocklen).
	block, err := d.cipherFor(temp[:KeyLen])
	if err != nil {
		return err
	}
	s.key = temp[:KeyLen]
	s.v = CounterFromBytes(temp[KeyLen:])
	s.block = block
	return nil
}
