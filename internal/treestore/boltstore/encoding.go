package boltstore

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/steveyegge/treestore/internal/objid"
	"github.com/steveyegge/treestore/internal/repotree"
)

// The wire format is a minimal tab-separated-fields, newline-per-record
// text encoding, chosen over gob or JSON so the bucket's raw bytes stay
// directly inspectable with bbolt's own CLI tooling during debugging.

func encodeEntryTable(t *repotree.EntryTable) []byte {
	var buf bytes.Buffer
	for _, e := range t.Entries() {
		fmt.Fprintf(&buf, "%s\t%d\t%s\t%s\t%s\t%t\t%s\n",
			e.Name, e.Value.Kind, e.Value.FileID.Hex(), e.Value.TreeID.Hex(), e.Value.SubmoduleID.Hex(), e.Value.Executable, e.Value.ConflictID.Hex())
	}
	return buf.Bytes()
}

func decodeEntryTable(raw []byte) (*repotree.EntryTable, error) {
	var entries []repotree.Entry
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			return nil, fmt.Errorf("boltstore: malformed tree entry %q", line)
		}
		kind, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("boltstore: malformed tree entry kind %q: %w", fields[1], err)
		}
		fileID, err := objid.FileIdFromHex(fields[2])
		if err != nil {
			return nil, err
		}
		treeID, err := objid.TreeIdFromHex(fields[3])
		if err != nil {
			return nil, err
		}
		submoduleID, err := objid.CommitIdFromHex(fields[4])
		if err != nil {
			return nil, err
		}
		executable := fields[5] == "true"
		conflictID, err := objid.ConflictIdFromHex(fields[6])
		if err != nil {
			return nil, err
		}
		entries = append(entries, repotree.Entry{
			Name: fields[0],
			Value: repotree.TreeValue{
				Kind:        repotree.ValueKind(kind),
				FileID:      fileID,
				Executable:  executable,
				TreeID:      treeID,
				SubmoduleID: submoduleID,
				ConflictID:  conflictID,
			},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return repotree.NewEntryTable(entries), nil
}

func encodeConflict(c repotree.Conflict) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "removes\t%d\n", len(c.Removes))
	for _, t := range c.Removes {
		encodeTerm(&buf, t)
	}
	fmt.Fprintf(&buf, "adds\t%d\n", len(c.Adds))
	for _, t := range c.Adds {
		encodeTerm(&buf, t)
	}
	return buf.Bytes()
}

func encodeTerm(buf *bytes.Buffer, t repotree.ConflictTerm) {
	if t.Value == nil {
		buf.WriteString("absent\n")
		return
	}
	fmt.Fprintf(buf, "present\t%d\t%s\t%s\t%s\t%t\t%s\n",
		t.Value.Kind, t.Value.FileID.Hex(), t.Value.TreeID.Hex(), t.Value.SubmoduleID.Hex(), t.Value.Executable, t.Value.ConflictID.Hex())
}

func decodeConflict(raw []byte) (repotree.Conflict, error) {
	scanner := bufio.NewScanner(bytes.NewReader(raw))

	readTerms := func(header string) ([]repotree.ConflictTerm, error) {
		if !scanner.Scan() {
			return nil, fmt.Errorf("boltstore: truncated conflict record, expected %q header", header)
		}
		fields := strings.SplitN(scanner.Text(), "\t", 2)
		if len(fields) != 2 || fields[0] != header {
			return nil, fmt.Errorf("boltstore: expected %q header, got %q", header, scanner.Text())
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("boltstore: malformed conflict term count: %w", err)
		}
		terms := make([]repotree.ConflictTerm, 0, count)
		for i := 0; i < count; i++ {
			if !scanner.Scan() {
				return nil, fmt.Errorf("boltstore: truncated conflict term list")
			}
			term, err := decodeTerm(scanner.Text())
			if err != nil {
				return nil, err
			}
			terms = append(terms, term)
		}
		return terms, nil
	}

	removes, err := readTerms("removes")
	if err != nil {
		return repotree.Conflict{}, err
	}
	adds, err := readTerms("adds")
	if err != nil {
		return repotree.Conflict{}, err
	}
	return repotree.Conflict{Removes: removes, Adds: adds}, nil
}

func decodeTerm(line string) (repotree.ConflictTerm, error) {
	if line == "absent" {
		return repotree.ConflictTerm{}, nil
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 7 || fields[0] != "present" {
		return repotree.ConflictTerm{}, fmt.Errorf("boltstore: malformed conflict term %q", line)
	}
	kind, err := strconv.Atoi(fields[1])
	if err != nil {
		return repotree.ConflictTerm{}, err
	}
	fileID, err := objid.FileIdFromHex(fields[2])
	if err != nil {
		return repotree.ConflictTerm{}, err
	}
	treeID, err := objid.TreeIdFromHex(fields[3])
	if err != nil {
		return repotree.ConflictTerm{}, err
	}
	submoduleID, err := objid.CommitIdFromHex(fields[4])
	if err != nil {
		return repotree.ConflictTerm{}, err
	}
	executable := fields[5] == "true"
	conflictID, err := objid.ConflictIdFromHex(fields[6])
	if err != nil {
		return repotree.ConflictTerm{}, err
	}
	v := repotree.TreeValue{
		Kind:        repotree.ValueKind(kind),
		FileID:      fileID,
		Executable:  executable,
		TreeID:      treeID,
		SubmoduleID: submoduleID,
		ConflictID:  conflictID,
	}
	return repotree.ConflictTerm{Value: &v}, nil
}
