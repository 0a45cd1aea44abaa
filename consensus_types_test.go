// ssz: Go Simple Serialize (SSZ) codec library
// Copyright 2024 ssz Authors
// SPDX-License-Identifier: BSD-3-Clause

package ssz_test

import "github.com/ssz-tree/ssz"

// Mainnet preset constants of the consensus types below.
const (
	maxValidatorsPerCommittee = 2048
	slotsPerHistoricalRoot    = 8192
	syncCommitteeSize         = 512
	depositContractTreeDepth  = 32
	maxProposerSlashings      = 16
	maxAttesterSlashings      = 2
	maxAttestations           = 128
	maxDeposits               = 16
	maxVoluntaryExits         = 16
	maxExtraDataBytes         = 32
	maxBytesPerTransaction    = 1 << 30
	maxTransactionsPerPayload = 1 << 20
	bytesPerLogsBloom         = 256
)

var (
	bytes20Schema = ssz.MustVectorSchema(ssz.Uint8Schema, 20)
	bytes48Schema = ssz.MustVectorSchema(ssz.Uint8Schema, 48)
	bytes96Schema = ssz.MustVectorSchema(ssz.Uint8Schema, 96)

	checkpointSchema = ssz.MustContainerSchema("Checkpoint",
		ssz.Field{Name: "epoch", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "root", Schema: ssz.Bytes32Schema},
	)
	forkSchema = ssz.MustContainerSchema("Fork",
		ssz.Field{Name: "previous_version", Schema: ssz.Bytes4Schema},
		ssz.Field{Name: "current_version", Schema: ssz.Bytes4Schema},
		ssz.Field{Name: "epoch", Schema: ssz.Uint64Schema},
	)
	attestationDataSchema = ssz.MustContainerSchema("AttestationData",
		ssz.Field{Name: "slot", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "index", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "beacon_block_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "source", Schema: checkpointSchema},
		ssz.Field{Name: "target", Schema: checkpointSchema},
	)
	attestationSchema = ssz.MustContainerSchema("Attestation",
		ssz.Field{Name: "aggregation_bits", Schema: must(ssz.NewBitlistSchema(maxValidatorsPerCommittee))},
		ssz.Field{Name: "data", Schema: attestationDataSchema},
		ssz.Field{Name: "signature", Schema: bytes96Schema},
	)
	pendingAttestationSchema = ssz.MustContainerSchema("PendingAttestation",
		ssz.Field{Name: "aggregation_bits", Schema: must(ssz.NewBitlistSchema(maxValidatorsPerCommittee))},
		ssz.Field{Name: "data", Schema: attestationDataSchema},
		ssz.Field{Name: "inclusion_delay", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "proposer_index", Schema: ssz.Uint64Schema},
	)
	indexedAttestationSchema = ssz.MustContainerSchema("IndexedAttestation",
		ssz.Field{Name: "attesting_indices", Schema: ssz.MustListSchema(ssz.Uint64Schema, maxValidatorsPerCommittee)},
		ssz.Field{Name: "data", Schema: attestationDataSchema},
		ssz.Field{Name: "signature", Schema: bytes96Schema},
	)
	attesterSlashingSchema = ssz.MustContainerSchema("AttesterSlashing",
		ssz.Field{Name: "attestation_1", Schema: indexedAttestationSchema},
		ssz.Field{Name: "attestation_2", Schema: indexedAttestationSchema},
	)
	beaconBlockHeaderSchema = ssz.MustContainerSchema("BeaconBlockHeader",
		ssz.Field{Name: "slot", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "proposer_index", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "parent_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "state_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "body_root", Schema: ssz.Bytes32Schema},
	)
	signedBeaconBlockHeaderSchema = ssz.MustContainerSchema("SignedBeaconBlockHeader",
		ssz.Field{Name: "message", Schema: beaconBlockHeaderSchema},
		ssz.Field{Name: "signature", Schema: bytes96Schema},
	)
	proposerSlashingSchema = ssz.MustContainerSchema("ProposerSlashing",
		ssz.Field{Name: "signed_header_1", Schema: signedBeaconBlockHeaderSchema},
		ssz.Field{Name: "signed_header_2", Schema: signedBeaconBlockHeaderSchema},
	)
	depositDataSchema = ssz.MustContainerSchema("DepositData",
		ssz.Field{Name: "pubkey", Schema: bytes48Schema},
		ssz.Field{Name: "withdrawal_credentials", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "amount", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "signature", Schema: bytes96Schema},
	)
	depositMessageSchema = ssz.MustContainerSchema("DepositMessage",
		ssz.Field{Name: "pubkey", Schema: bytes48Schema},
		ssz.Field{Name: "withdrawal_credentials", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "amount", Schema: ssz.Uint64Schema},
	)
	depositSchema = ssz.MustContainerSchema("Deposit",
		ssz.Field{Name: "proof", Schema: ssz.MustVectorSchema(ssz.Bytes32Schema, depositContractTreeDepth+1)},
		ssz.Field{Name: "data", Schema: depositDataSchema},
	)
	eth1BlockSchema = ssz.MustContainerSchema("Eth1Block",
		ssz.Field{Name: "timestamp", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "deposit_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "deposit_count", Schema: ssz.Uint64Schema},
	)
	voluntaryExitSchema = ssz.MustContainerSchema("VoluntaryExit",
		ssz.Field{Name: "epoch", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "validator_index", Schema: ssz.Uint64Schema},
	)
	signedVoluntaryExitSchema = ssz.MustContainerSchema("SignedVoluntaryExit",
		ssz.Field{Name: "message", Schema: voluntaryExitSchema},
		ssz.Field{Name: "signature", Schema: bytes96Schema},
	)
	validatorSchema = ssz.MustContainerSchema("Validator",
		ssz.Field{Name: "pubkey", Schema: bytes48Schema},
		ssz.Field{Name: "withdrawal_credentials", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "effective_balance", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "slashed", Schema: ssz.BoolSchema},
		ssz.Field{Name: "activation_eligibility_epoch", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "activation_epoch", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "exit_epoch", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "withdrawable_epoch", Schema: ssz.Uint64Schema},
	)
	historicalBatchSchema = ssz.MustContainerSchema("HistoricalBatch",
		ssz.Field{Name: "block_roots", Schema: ssz.MustVectorSchema(ssz.Bytes32Schema, slotsPerHistoricalRoot)},
		ssz.Field{Name: "state_roots", Schema: ssz.MustVectorSchema(ssz.Bytes32Schema, slotsPerHistoricalRoot)},
	)
	historicalSummarySchema = ssz.MustContainerSchema("HistoricalSummary",
		ssz.Field{Name: "block_summary_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "state_summary_root", Schema: ssz.Bytes32Schema},
	)
	syncAggregateSchema = ssz.MustContainerSchema("SyncAggregate",
		ssz.Field{Name: "sync_committee_bits", Schema: must(ssz.NewBitvectorSchema(syncCommitteeSize))},
		ssz.Field{Name: "sync_committee_signature", Schema: bytes96Schema},
	)
	syncCommitteeSchema = ssz.MustContainerSchema("SyncCommittee",
		ssz.Field{Name: "pubkeys", Schema: ssz.MustVectorSchema(bytes48Schema, syncCommitteeSize)},
		ssz.Field{Name: "aggregate_pubkey", Schema: bytes48Schema},
	)
	withdrawalSchema = ssz.MustContainerSchema("Withdrawal",
		ssz.Field{Name: "index", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "validator_index", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "address", Schema: bytes20Schema},
		ssz.Field{Name: "amount", Schema: ssz.Uint64Schema},
	)
	blsToExecutionChangeSchema = ssz.MustContainerSchema("BLSToExecutionChange",
		ssz.Field{Name: "validator_index", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "from_bls_pubkey", Schema: bytes48Schema},
		ssz.Field{Name: "to_execution_address", Schema: bytes20Schema},
	)
	signedBLSToExecutionChangeSchema = ssz.MustContainerSchema("SignedBLSToExecutionChange",
		ssz.Field{Name: "message", Schema: blsToExecutionChangeSchema},
		ssz.Field{Name: "signature", Schema: bytes96Schema},
	)
	executionPayloadSchema = ssz.MustContainerSchema("ExecutionPayload",
		ssz.Field{Name: "parent_hash", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "fee_recipient", Schema: bytes20Schema},
		ssz.Field{Name: "state_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "receipts_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "logs_bloom", Schema: ssz.MustVectorSchema(ssz.Uint8Schema, bytesPerLogsBloom)},
		ssz.Field{Name: "prev_randao", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "block_number", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "gas_limit", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "gas_used", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "timestamp", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "extra_data", Schema: ssz.MustListSchema(ssz.Uint8Schema, maxExtraDataBytes)},
		ssz.Field{Name: "base_fee_per_gas", Schema: ssz.Uint256Schema},
		ssz.Field{Name: "block_hash", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "transactions", Schema: ssz.MustListSchema(
			ssz.MustListSchema(ssz.Uint8Schema, maxBytesPerTransaction), maxTransactionsPerPayload)},
	)
	beaconBlockBodySchema = ssz.MustContainerSchema("BeaconBlockBody",
		ssz.Field{Name: "randao_reveal", Schema: bytes96Schema},
		ssz.Field{Name: "eth1_data", Schema: eth1DataSchema},
		ssz.Field{Name: "graffiti", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "proposer_slashings", Schema: ssz.MustListSchema(proposerSlashingSchema, maxProposerSlashings)},
		ssz.Field{Name: "attester_slashings", Schema: ssz.MustListSchema(attesterSlashingSchema, maxAttesterSlashings)},
		ssz.Field{Name: "attestations", Schema: ssz.MustListSchema(attestationSchema, maxAttestations)},
		ssz.Field{Name: "deposits", Schema: ssz.MustListSchema(depositSchema, maxDeposits)},
		ssz.Field{Name: "voluntary_exits", Schema: ssz.MustListSchema(signedVoluntaryExitSchema, maxVoluntaryExits)},
	)
	beaconBlockSchema = ssz.MustContainerSchema("BeaconBlock",
		ssz.Field{Name: "slot", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "proposer_index", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "parent_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "state_root", Schema: ssz.Bytes32Schema},
		ssz.Field{Name: "body", Schema: beaconBlockBodySchema},
	)
)

// consensusSchemas maps the type names of the consensus spec static tests to
// schemas, along with the forks whose layout matches them. No forks means all.
var consensusSchemas = []struct {
	name   string
	schema *ssz.ContainerSchema
	forks  []string
}{
	{"AggregateAndProof", ssz.MustContainerSchema("AggregateAndProof",
		ssz.Field{Name: "aggregator_index", Schema: ssz.Uint64Schema},
		ssz.Field{Name: "aggregate", Schema: attestationSchema},
		ssz.Field{Name: "selection_proof", Schema: bytes96Schema},
	), []string{"phase0", "altair", "bellatrix", "capella", "deneb"}},
	{"Attestation", attestationSchema, []string{"phase0", "altair", "bellatrix", "capella", "deneb"}},
	{"AttestationData", attestationDataSchema, nil},
	{"AttesterSlashing", attesterSlashingSchema, []string{"phase0", "altair", "bellatrix", "capella", "deneb"}},
	{"BeaconBlock", beaconBlockSchema, []string{"phase0"}},
	{"BeaconBlockBody", beaconBlockBodySchema, []string{"phase0"}},
	{"BeaconBlockHeader", beaconBlockHeaderSchema, nil},
	{"BLSToExecutionChange", blsToExecutionChangeSchema, nil},
	{"Checkpoint", checkpointSchema, nil},
	{"Deposit", depositSchema, nil},
	{"DepositData", depositDataSchema, nil},
	{"DepositMessage", depositMessageSchema, nil},
	{"Eth1Block", eth1BlockSchema, nil},
	{"Eth1Data", eth1DataSchema, nil},
	{"ExecutionPayload", executionPayloadSchema, []string{"bellatrix"}},
	{"Fork", forkSchema, nil},
	{"HistoricalBatch", historicalBatchSchema, nil},
	{"HistoricalSummary", historicalSummarySchema, nil},
	{"IndexedAttestation", indexedAttestationSchema, []string{"phase0", "altair", "bellatrix", "capella", "deneb"}},
	{"PendingAttestation", pendingAttestationSchema, nil},
	{"ProposerSlashing", proposerSlashingSchema, nil},
	{"SignedBeaconBlockHeader", signedBeaconBlockHeaderSchema, nil},
	{"SignedBLSToExecutionChange", signedBLSToExecutionChangeSchema, nil},
	{"SignedVoluntaryExit", signedVoluntaryExitSchema, nil},
	{"SyncAggregate", syncAggregateSchema, nil},
	{"SyncCommittee", syncCommitteeSchema, nil},
	{"Validator", validatorSchema, nil},
	{"VoluntaryExit", voluntaryExitSchema, nil},
	{"Withdrawal", withdrawalSchema, nil},
}
