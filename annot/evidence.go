package annot

import "sort"

// EvidenceCodes maps every known annotation evidence code to its
// description. Filters built without an explicit code list allow all of
// these.
var EvidenceCodes = map[string]string{
	"EXP": "Inferred from Experiment",
	"IDA": "Inferred from Direct Assay",
	"IPI": "Inferred from Physical Interaction",
	"IMP": "Inferred from Mutant Phenotype",
	"IGI": "Inferred from Genetic Interaction",
	"IEP": "Inferred from Expression Pattern",
	"ISS": "Inferred from Sequence or Structural Similarity",
	"ISA": "Inferred from Sequence Alignment",
	"ISO": "Inferred from Sequence Orthology",
	"ISM": "Inferred from Sequence Model",
	"IGC": "Inferred from Genomic Context",
	"IBA": "Inferred from Biological aspect of Ancestor",
	"IBD": "Inferred from Biological aspect of Descendant",
	"IKR": "Inferred from Key Residues",
	"IRD": "Inferred from Rapid Divergence",
	"RCA": "Inferred from Reviewed Computational Analysis",
	"TAS": "Traceable Author Statement",
	"NAS": "Non-traceable Author Statement",
	"IC":  "Inferred by Curator",
	"ND":  "No biological Data available",
	"IEA": "Inferred from Electronic Annotation",
	"NR":  "Not Recorded",
}

// EvidenceSet is a set of allowed evidence codes.
type EvidenceSet map[string]bool

// NewEvidenceSet builds an evidence filter from the given codes. With no
// codes it allows every code in EvidenceCodes.
func NewEvidenceSet(codes ...string) EvidenceSet {
	set := make(EvidenceSet)
	if len(codes) == 0 {
		for code := range EvidenceCodes {
			set[code] = true
		}
		return set
	}
	for _, code := range codes {
		set[code] = true
	}
	return set
}

// Allows reports whether the evidence code passes the filter. A nil set
// behaves like the default all-codes filter.
func (e EvidenceSet) Allows(code string) bool {
	if e == nil {
		return EvidenceCodes[code] != ""
	}
	return e[code]
}

// Codes returns the allowed codes in lexical order.
func (e EvidenceSet) Codes() []string {
	codes := make([]string, 0, len(e))
	for code, ok := range e {
		if ok {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
