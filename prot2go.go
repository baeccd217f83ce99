// Package prot2go generates Go accessor code from abstract binary layout
// schemas. Bit field schemas become masked register readers and writers,
// structure schemas become packed records with little endian serialization.
//
// The package also carries the IEEE 802.15.4 MAC frame schemas that double
// as the reference input for the generator.
package prot2go

import (
	"path/filepath"

	"github.com/rudihorn/prot2go/gen/gengo"
	"github.com/rudihorn/prot2go/log"
	"github.com/rudihorn/prot2go/schema"
)

// FrameControl returns the 802.15.4 MAC frame control register schema. The
// sixteen bits pack LSB first in declaration order.
func FrameControl() *schema.BitField {
	return schema.NewBitField("frame_control",
		"This field contains information about the frame type, addressing and control flags.",
	).AddField("frame_type",
		"Specifies the type of the frame.",
		3, func(f *schema.Field) {
			f.Enum("beacon", 0b000).
				Enum("data", 0b001).
				Enum("acknowledgement", 0b010).
				Enum("mac_command", 0b011)
		}).AddField("security_enabled",
		"Specifies if the frame is encrypted using the key stored in the PIB.",
		1, func(f *schema.Field) {
			f.Enum("unencrypted", 0).Enum("encrypted", 1)
		}).AddField("frame_pending",
		"Specifies if the sender has additional data to send to the recipient.",
		1, func(f *schema.Field) {
			f.Enum("no_frame_pending", 0).Enum("frame_pending", 1)
		}).AddField("ack_request",
		"Specifies whether an acknowledgement is required from the recipient device.",
		1, func(f *schema.Field) {
			f.Enum("ack_not_requested", 0).Enum("ack_requested", 1)
		}).AddField("intra_pan",
		"Specifies whether the MAC frame is to be sent within the same PAN.",
		1, func(f *schema.Field) {
			f.Enum("pan_present", 0).Enum("inter_pan", 1)
		}).AddReserved(3).
		AddField("dest_addr_mode",
			"Specifies the type of the destination address.",
			2, func(f *schema.Field) {
				f.Enum("not_present", 0).
					Enum("address_16bit", 1).
					Enum("address_64bit_extended", 3)
			}).AddReserved(2).
		AddField("source_addr_mode",
			"Specifies the type of the source address.",
			2, func(f *schema.Field) {
				f.Enum("not_present", 0).
					Enum("address_16bit", 1).
					Enum("address_64bit_extended", 3)
			})
}

// MacStructures returns the MAC header structure schemas in declaration
// order together with the registered alternative groups. The last structure
// is the mhr record itself.
func MacStructures() ([]*schema.Structure, *schema.Alternatives) {
	addrNone := schema.NewStructure("addr_none")
	addrShort := schema.NewStructure("addr_short").AddUint16("address")
	addrExtended := schema.NewStructure("addr_extended").AddUint64("address")

	panNone := schema.NewStructure("pan_none")
	panShort := schema.NewStructure("pan_short").AddUint16("pan")

	address := schema.NewGroup("address", addrNone).
		Add(addrShort).
		Add(addrExtended)
	panid := schema.NewGroup("panid", panNone).Add(panShort)

	mhr := schema.NewStructure("mhr").
		AddBitField("frame_control", FrameControl()).
		AddUint8("sequence_number").
		AddAlt("dest_pan", panid).
		AddAlt("dest_address", address).
		AddAlt("source_pan", panid).
		AddAlt("source_address", address)

	alts := schema.NewAlternatives(address, panid)
	return []*schema.Structure{
		addrNone, addrShort, addrExtended,
		panNone, panShort, mhr,
	}, alts
}

// Generate renders the MAC frame accessor files into dir as package pkg.
// It writes frame_control.go with the register accessors and mac_frame.go
// with the structure records and alternative groups.
func Generate(dir, pkg string) error {
	fc := gengo.NewFile(pkg)
	defer fc.Close()
	if err := fc.BitField(FrameControl()); err != nil {
		return err
	}
	path := filepath.Join(dir, "frame_control.go")
	if err := fc.WriteFile(path); err != nil {
		return err
	}
	log.Debug("generated bitfield accessors", "file", path)

	ss, alts := MacStructures()
	mf := gengo.NewFile(pkg)
	defer mf.Close()
	if err := mf.Alternatives(alts); err != nil {
		return err
	}
	for _, s := range ss {
		if err := mf.Structure(s, alts); err != nil {
			return err
		}
	}
	path = filepath.Join(dir, "mac_frame.go")
	if err := mf.WriteFile(path); err != nil {
		return err
	}
	log.Debug("generated structure accessors", "file", path)
	return nil
}
