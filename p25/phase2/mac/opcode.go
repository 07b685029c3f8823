// Package mac implements the opcodes of P25 Phase 2 MAC (medium access
// control) messages.
package mac

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pd0mz/go-trunk/opcode"
)

// Opcode is a MAC message opcode.
type Opcode uint8

const (
	PushToTalk Opcode = iota
	EndPushToTalk
	NullInformation
	GroupVoiceChannelUserAbbreviated
	UnitToUnitVoiceChannelUser
	TelephoneInterconnectVoiceChannelUser
	GroupVoiceChannelGrantUpdateMultiple
	IndirectGroupPaging
	IndividualPagingWithPriority
	GroupVoiceChannelUserExtended
	UnitToUnitVoiceChannelUserExtended
	GroupVoiceChannelGrantUpdateMultipleExplicit
	PowerControlSignalQuality
	MACRelease
	UnknownTDMA
	GroupVoiceChannelGrantAbbreviated
	GroupVoiceServiceRequest
	GroupVoiceChannelGrantUpdate
	UnitToUnitVoiceChannelGrantAbbreviated
	UnitToUnitAnswerRequestAbbreviated
	UnitToUnitVoiceChannelGrantUpdateAbbreviated
	TelephoneInterconnectAnswerRequest
	RadioUnitMonitorCommandAbbreviated
	SNDCPDataChannelGrant
	SNDCPDataPageRequest
	StatusUpdateAbbreviated
	StatusQueryAbbreviated
	MessageUpdateAbbreviated
	RadioUnitMonitorCommandObsolete
	RadioUnitMonitorCommandEnhanced
	CallAlertAbbreviated
	AckResponse
	QueuedResponse
	ExtendedFunctionCommandAbbreviated
	DenyResponse
	GroupAffiliationQueryAbbreviated
	UnitRegistrationCommandAbbreviated
	IdentifierUpdateTDMA
	IdentifierUpdateVUHF
	TimeAndDateAnnouncement
	SystemServiceBroadcast
	SecondaryControlChannelBroadcastAbbreviated
	RFSSStatusBroadcastAbbreviated
	NetworkStatusBroadcastAbbreviated
	AdjacentStatusBroadcastAbbreviated
	IdentifierUpdate
	UnknownPhase1
	UnknownVendor
	GroupVoiceChannelGrantExtended
	GroupVoiceChannelGrantUpdateExplicit
	UnitToUnitVoiceChannelGrantExtended
	UnitToUnitAnswerRequestExtended
	UnitToUnitVoiceChannelGrantUpdateExtended
	RadioUnitMonitorCommandExtended
	SNDCPDataChannelAnnouncementExplicit
	StatusUpdateExtended
	StatusQueryExtended
	MessageUpdateExtended
	CallAlertExtended
	ExtendedFunctionCommandExtended
	SecondaryControlChannelBroadcastExplicit
	GroupAffiliationQueryExtended
	RFSSStatusBroadcastExtended
	NetworkStatusBroadcastExtended
	AdjacentStatusBroadcastExtended
	UnknownExtendedPhase1
	Unknown
)

const (
	// LengthVariable marks opcodes whose length is carried in the message.
	LengthVariable = math.MinInt32
	// LengthUnknown marks opcodes of which the length can not be known.
	LengthUnknown = -1
)

type descriptor struct {
	value  int
	label  string
	length int
}

var descriptors = [...]descriptor{
	PushToTalk:                                   {opcode.NoValue, "PUSH-TO-TALK", LengthUnknown},
	EndPushToTalk:                                {opcode.NoValue, "END PUSH-TO-TALK", LengthUnknown},
	NullInformation:                              {0, "NULL INFORMATION", LengthUnknown},
	GroupVoiceChannelUserAbbreviated:             {1, "GROUP VOICE CHANNEL USER ABBREVIATED", 7},
	UnitToUnitVoiceChannelUser:                   {2, "UNIT-TO-UNIT VOICE CHANNEL USER", 8},
	TelephoneInterconnectVoiceChannelUser:        {3, "TELEPHONE INTERCONNECT VOICE CHANNEL USER", 7},
	GroupVoiceChannelGrantUpdateMultiple:         {5, "GROUP VOICE CHANNEL GRANT UPDATE MULTIPLE", 16},
	IndirectGroupPaging:                          {17, "INDIRECT GROUP PAGING", LengthVariable},
	IndividualPagingWithPriority:                 {18, "INDIVIDUAL PAGING MESSAGE WITH PRIORITY", LengthVariable},
	GroupVoiceChannelUserExtended:                {33, "GROUP VOICE CHANNEL USER EXTENDED", 14},
	UnitToUnitVoiceChannelUserExtended:           {34, "UNIT-TO-UNIT VOICE CHANNEL USER EXTENDED", 15},
	GroupVoiceChannelGrantUpdateMultipleExplicit: {37, "TDMA GROUP VOICE CHANNEL GRANT UPDATE EXPLICIT", 15},
	PowerControlSignalQuality:                    {48, "POWER CONTROL SIGNAL QUALITY", 5},
	MACRelease:                                   {49, "MAC RELEASE", 7},
	UnknownTDMA:                                  {opcode.NoValue, "UNKNOWN TDMA OPCODE", LengthUnknown},
	GroupVoiceChannelGrantAbbreviated:            {64, "GROUP VOICE CHANNEL GRANT ABBREVIATED", 9},
	GroupVoiceServiceRequest:                     {65, "GROUP VOICE SERVICE REQUEST", 7},
	GroupVoiceChannelGrantUpdate:                 {66, "GROUP VOICE CHANNEL GRANT UPDATE", 9},
	UnitToUnitVoiceChannelGrantAbbreviated:       {68, "UNIT-TO-UNIT VOICE CHANNEL GRANT ABBREVIATED", 9},
	UnitToUnitAnswerRequestAbbreviated:           {69, "UNIT-TO-UNIT ANSWER REQUEST ABBREVIATED", 8},
	UnitToUnitVoiceChannelGrantUpdateAbbreviated: {70, "UNIT-TO-UNIT VOICE CHANNEL GRANT UPDATE ABBREVIATED", 9},
	TelephoneInterconnectAnswerRequest:           {74, "TELEPHONE INTERCONNECT ANSWER REQUEST", 9},
	RadioUnitMonitorCommandAbbreviated:           {76, "RADIO UNIT MONITOR COMMAND ABBREVIATED", 10},
	SNDCPDataChannelGrant:                        {84, "SNDCP DATA CHANNEL GRANT", 9},
	SNDCPDataPageRequest:                         {85, "SNDCP DATA PAGE REQUEST", 7},
	StatusUpdateAbbreviated:                      {88, "STATUS UPDATE ABBREVIATED", 10},
	StatusQueryAbbreviated:                       {90, "STATUS QUERY ABBREVIATED", 7},
	MessageUpdateAbbreviated:                     {92, "MESSAGE UPDATE ABBREVIATED", 10},
	RadioUnitMonitorCommandObsolete:              {93, "RADIO UNIT MONITOR COMMAND", 8},
	RadioUnitMonitorCommandEnhanced:              {94, "RADIO UNIT MONITOR ENHANCED COMMAND ABBREVIATED", 14},
	CallAlertAbbreviated:                         {95, "CALL ALERT ABBREVIATED", 7},
	AckResponse:                                  {96, "ACK RESPONSE", 9},
	QueuedResponse:                               {97, "QUEUED RESPONSE", 9},
	ExtendedFunctionCommandAbbreviated:           {100, "EXTENDED FUNCTION COMMAND ABBREVIATED", 9},
	DenyResponse:                                 {103, "DENY RESPONSE", 9},
	GroupAffiliationQueryAbbreviated:             {106, "GROUP AFFILIATION QUERY ABBREVIATED", 7},
	UnitRegistrationCommandAbbreviated:           {109, "UNIT REGISTRATION COMMAND ABBREVIATED", 7},
	IdentifierUpdateTDMA:                         {115, "IDENTIFIER UPDATE TDMA", 9},
	IdentifierUpdateVUHF:                         {116, "IDENTIFIER UPDATE V/UHF", 9},
	TimeAndDateAnnouncement:                      {117, "TIME AND DATE ANNOUNCEMENT", 9},
	SystemServiceBroadcast:                       {120, "SYSTEM SERVICE BROADCAST", 9},
	SecondaryControlChannelBroadcastAbbreviated:  {121, "SECONDARY CONTROL CHANNEL BROADCAST", 9},
	RFSSStatusBroadcastAbbreviated:               {122, "RFSS STATUS BROADCAST ABBREVIATED", 9},
	NetworkStatusBroadcastAbbreviated:            {123, "NETWORK STATUS BROADCAST ABBREVIATED", 11},
	AdjacentStatusBroadcastAbbreviated:           {124, "ADJACENT STATUS BROADCAST ABBREVIATED", 9},
	IdentifierUpdate:                             {125, "IDENTIFIER UPDATE", 9},
	UnknownPhase1:                                {opcode.NoValue, "UNKNOWN PHASE 1 OPCODE", LengthUnknown},
	UnknownVendor:                                {opcode.NoValue, "UNKNOWN VENDOR OPCODE", LengthUnknown},
	GroupVoiceChannelGrantExtended:               {192, "GROUP VOICE CHANNEL GRANT EXTENDED", 11},
	GroupVoiceChannelGrantUpdateExplicit:         {195, "GROUP VOICE CHANNEL GRANT UPDATE EXPLICIT", 8},
	UnitToUnitVoiceChannelGrantExtended:          {196, "UNIT-TO-UNIT VOICE CHANNEL GRANT EXTENDED", 15},
	UnitToUnitAnswerRequestExtended:              {197, "UNIT-TO-UNIT ANSWER REQUEST EXTENDED", 12},
	UnitToUnitVoiceChannelGrantUpdateExtended:    {198, "UNIT-TO-UNIT VOICE CHANNEL GRANT UPDATE EXTENDED", 15},
	RadioUnitMonitorCommandExtended:              {204, "RADIO UNIT MONITOR COMMAND EXTENDED", 14},
	SNDCPDataChannelAnnouncementExplicit:         {214, "SNDCP DATA CHANNEL ANNOUNCEMENT EXPLICIT", 9},
	StatusUpdateExtended:                         {216, "STATUS UPDATE EXTENDED", 14},
	StatusQueryExtended:                          {218, "STATUS QUERY EXTENDED", 11},
	MessageUpdateExtended:                        {220, "MESSAGE UPDATE EXTENDED", 14},
	CallAlertExtended:                            {223, "CALL ALERT EXTENDED", 11},
	ExtendedFunctionCommandExtended:              {228, "EXTENDED FUNCTION COMMAND EXTENDED", 14},
	SecondaryControlChannelBroadcastExplicit:     {233, "SECONDARY CONTROL CHANNEL BROADCAST EXPLICIT", 8},
	GroupAffiliationQueryExtended:                {234, "GROUP AFFILIATION QUERY EXTENDED", 11},
	RFSSStatusBroadcastExtended:                  {250, "RFSS STATUS BROADCAST EXTENDED", 11},
	NetworkStatusBroadcastExtended:               {251, "NETWORK STATUS BROADCAST EXTENDED", 13},
	AdjacentStatusBroadcastExtended:              {252, "ADJACENT STATUS BROADCAST EXTENDED", 11},
	UnknownExtendedPhase1:                        {opcode.NoValue, "UNKNOWN EXTENDED PHASE 1 OPCODE", LengthUnknown},
	Unknown:                                      {opcode.NoValue, "UNKNOWN", LengthUnknown},
}

// Partition is one of the four 64 code bands of the opcode space.
type Partition uint8

const (
	PartitionNone Partition = iota
	PartitionTDMA
	PartitionPhase1
	PartitionVendor
	PartitionExtendedPhase1
)

var partitionName = map[Partition]string{
	PartitionNone:           "none",
	PartitionTDMA:           "TDMA",
	PartitionPhase1:         "Phase 1",
	PartitionVendor:         "vendor",
	PartitionExtendedPhase1: "extended Phase 1",
}

func (p Partition) String() string { return partitionName[p] }

var partitions = []struct {
	partition Partition
	band      opcode.Band[Opcode]
}{
	{PartitionTDMA, opcode.Band[Opcode]{Low: 0, High: 63, Fallback: UnknownTDMA}},
	{PartitionPhase1, opcode.Band[Opcode]{Low: 64, High: 127, Fallback: UnknownPhase1}},
	{PartitionVendor, opcode.Band[Opcode]{Low: 128, High: 191, Fallback: UnknownVendor}},
	{PartitionExtendedPhase1, opcode.Band[Opcode]{Low: 192, High: 255, Fallback: UnknownExtendedPhase1}},
}

var registry = func() *opcode.Registry[Opcode] {
	var (
		all   = make([]Opcode, len(descriptors))
		bands = make([]opcode.Band[Opcode], len(partitions))
	)
	for i := range all {
		all[i] = Opcode(i)
	}
	for i, p := range partitions {
		bands[i] = p.band
	}
	return opcode.MustNew(all, bands, Unknown)
}()

// FromValue resolves a numeric opcode. It never fails: unassigned codes
// resolve to the unknown opcode of their partition, codes outside [0,255] to
// Unknown.
func FromValue(v int) Opcode {
	return registry.Lookup(v)
}

// All opcodes in declaration order.
func All() []Opcode {
	return registry.All()
}

// Value is the numeric code, or opcode.NoValue.
func (o Opcode) Value() int { return o.descriptor().value }

func (o Opcode) Label() string { return o.descriptor().label }

// Length of the message in octets, including the opcode octet.
func (o Opcode) Length() int { return o.descriptor().length }

func (o Opcode) IsVariableLength() bool { return o.Length() == LengthVariable }

// IsUnknown reports whether o is a partition fallback or Unknown.
func (o Opcode) IsUnknown() bool { return registry.IsFallback(o) }

// Title is the label for display, "GROUP VOICE SERVICE REQUEST" becomes
// "Group Voice Service Request".
func (o Opcode) Title() string {
	return cases.Title(language.English).String(o.Label())
}

// Partition returns the band o belongs to.
func (o Opcode) Partition() Partition {
	for _, p := range partitions {
		if o == p.band.Fallback {
			return p.partition
		}
		if v := o.Value(); v != opcode.NoValue && p.band.Low <= v && v <= p.band.High {
			return p.partition
		}
	}
	return PartitionNone
}

func (o Opcode) String() string { return o.Label() }

// GoString is used by %#v.
func (o Opcode) GoString() string {
	return fmt.Sprintf("mac.Opcode(%d %q)", o.Value(), o.Label())
}

func (o Opcode) descriptor() descriptor {
	if int(o) < len(descriptors) {
		return descriptors[o]
	}
	return descriptors[Unknown]
}
