package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/gopartition/crypto"
	"github.com/blinklabs-io/gopartition/types"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// Signer returns a deterministic signer whose private key is 31 zero bytes followed by
// the provided byte
func Signer(b byte) *crypto.Secp256k1Signer {
	privKey := make([]byte, crypto.PrivateKeySize)
	privKey[len(privKey)-1] = b
	signer, err := crypto.NewSignerFromBytes(privKey)
	if err != nil {
		panic(fmt.Sprintf("error creating signer: %s", err))
	}
	return signer
}

// NodeID returns the identifier used for the root node at the given index
func NodeID(idx int) string {
	return fmt.Sprintf("node-%d", idx)
}

// TrustBase creates a trust base with one root node per stake entry. Node keys come
// from Signer(idx+1)
func TrustBase(stakes []uint64, quorumThreshold uint64) (*types.RootTrustBase, []*crypto.Secp256k1Signer) {
	nodes := make([]*types.NodeInfo, 0, len(stakes))
	signers := make([]*crypto.Secp256k1Signer, 0, len(stakes))
	for idx, stake := range stakes {
		signer := Signer(byte(idx + 1))
		signers = append(signers, signer)
		nodes = append(nodes, &types.NodeInfo{
			NodeID: NodeID(idx),
			SigKey: signer.PublicKey(),
			Stake:  stake,
		})
	}
	tb, err := types.NewTrustBase(types.NetworkLocal, 1, 1, nodes, quorumThreshold)
	if err != nil {
		panic(fmt.Sprintf("error creating trust base: %s", err))
	}
	return tb, signers
}

// Sibling returns a Merkle path step with a deterministic hash
func Sibling(b byte, left bool) *types.GenericChainItem {
	return &types.GenericChainItem{
		Hash: types.Sha256([]byte{b}),
		Left: left,
	}
}

// RecordProof creates a proof for the record with the given Merkle path, certified
// by a unicity certificate whose seal is signed by the root nodes at signerIdx
func RecordProof(
	record *types.TransactionRecord,
	chain []*types.GenericChainItem,
	signers []*crypto.Secp256k1Signer,
	signerIdx ...int,
) *types.TxRecordProof {
	txHash, err := record.Hash()
	if err != nil {
		panic(fmt.Sprintf("error hashing record: %s", err))
	}
	headerHash := types.Sha256([]byte("block header"))
	txProof := &types.TxProof{
		Version:         types.TxProofVersion1,
		BlockHeaderHash: headerHash,
		Chain:           chain,
	}
	blockHash, err := txProof.CalculateBlockHash(txHash)
	if err != nil {
		panic(fmt.Sprintf("error computing block hash: %s", err))
	}
	uc := &types.UnicityCertificate{
		Version: 1,
		InputRecord: &types.InputRecord{
			Version:      1,
			RoundNumber:  10,
			Epoch:        1,
			PreviousHash: types.Sha256([]byte("state 9")),
			Hash:         types.Sha256([]byte("state 10")),
			BlockHash:    blockHash,
			SummaryValue: types.Uint64ToBytes(0),
			Timestamp:    1700000000,
		},
		TRHash:        types.Sha256([]byte("technical record")),
		ShardConfHash: types.Sha256([]byte("shard conf")),
		UnicityTreeCertificate: &types.UnicityTreeCertificate{
			Version:   1,
			Partition: types.DefaultTokenPartitionID,
			HashSteps: []*types.GenericChainItem{Sibling(0xa1, true), Sibling(0xa2, false)},
		},
	}
	root, err := uc.RootHash()
	if err != nil {
		panic(fmt.Sprintf("error computing unicity tree root: %s", err))
	}
	uc.UnicitySeal = &types.UnicitySeal{
		Version:              1,
		NetworkID:            types.NetworkLocal,
		RootChainRoundNumber: 5,
		Epoch:                1,
		Timestamp:            1700000000,
		PreviousHash:         types.Sha256([]byte("seal 4")),
		Hash:                 root,
	}
	SignSeal(uc.UnicitySeal, signers, signerIdx...)
	txProof.UnicityCertificate = uc
	return &types.TxRecordProof{
		TxRecord: record,
		TxProof:  txProof,
	}
}

// SignSeal replaces the seal signatures with signatures from the signers at signerIdx
func SignSeal(seal *types.UnicitySeal, signers []*crypto.Secp256k1Signer, signerIdx ...int) {
	sigBytes, err := seal.SigBytes()
	if err != nil {
		panic(fmt.Sprintf("error encoding seal: %s", err))
	}
	seal.Signatures = types.SignatureMap{}
	for _, idx := range signerIdx {
		sig, err := signers[idx].Sign(sigBytes)
		if err != nil {
			panic(fmt.Sprintf("error signing seal: %s", err))
		}
		seal.Signatures[NodeID(idx)] = sig
	}
}
