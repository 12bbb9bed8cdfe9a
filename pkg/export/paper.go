package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	paperMargin     = 0.75 * 72
	paperFont       = "Helvetica"
	paperFontSize   = 11
	paperLineHeight = 14
)

// PaperQuestion is one printable question. Options are only set for MCQs.
type PaperQuestion struct {
	Text    string
	Options []string
}

// Paper is the printable form of an exam, already split into parts A/B/C.
type Paper struct {
	ExamID    int64
	Title     string
	MCQ       []PaperQuestion
	OneMark   []PaperQuestion
	ThreeMark []PaperQuestion
}

// PaperPoints returns the header total using the fixed paper scheme:
// 1 point per MCQ, 3 per short question and 7 per long question. Stored
// per-question marks play no part in it.
func (p Paper) PaperPoints() int {
	return len(p.MCQ) + 3*len(p.OneMark) + 7*len(p.ThreeMark)
}

// WrapText greedily packs words into lines while measure(line+" "+word) stays
// below maxWidth. Words are never split, so a single word wider than maxWidth
// occupies a line of its own.
func WrapText(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if measure(candidate) < maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	return append(lines, line)
}

// PaperRenderer lays out exam papers as A4 PDFs.
type PaperRenderer struct {
	compress bool
}

// NewPaperRenderer builds a renderer producing compressed PDFs.
func NewPaperRenderer() *PaperRenderer {
	return &PaperRenderer{compress: true}
}

// Render produces the PDF bytes for p.
func (r *PaperRenderer) Render(p Paper) ([]byte, error) {
	pdf, err := r.layout(p)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render exam paper: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PaperRenderer) layout(p Paper) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Exam %d", p.ExamID), true)

	w, h := pdf.GetPageSize()
	l := &paperLayout{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		width:  w,
		height: h,
	}

	pdf.AddPage()
	l.border()
	l.y = paperMargin + 20
	l.header(p)

	contentWidth := l.contentWidth()

	if len(p.MCQ) > 0 {
		l.partHeading("PART - A", "I. Answer all the following questions. (1 Mark each)")
		for i, q := range p.MCQ {
			l.wrapped(fmt.Sprintf("%d. %s", i+1, q.Text), paperMargin+20, contentWidth-30, paperFontSize)
			l.options(q.Options)
			l.y += 5
		}
		l.y += 15
	}

	if len(p.OneMark) > 0 {
		l.breakIfNeeded(60)
		l.partHeading("PART - B", "II. Answer the following questions in one or two sentences.")
		for i, q := range p.OneMark {
			l.wrapped(fmt.Sprintf("%d. %s", i+1, q.Text), paperMargin+20, contentWidth-30, paperFontSize)
			l.y += 10
		}
		l.y += 15
	}

	if len(p.ThreeMark) > 0 {
		l.breakIfNeeded(60)
		l.partHeading("PART - C", "III. Answer the following questions in detail. (3 Marks each)")
		for i, q := range p.ThreeMark {
			l.wrapped(fmt.Sprintf("%d. %s", i+1, q.Text), paperMargin+20, contentWidth-30, paperFontSize)
			l.y += 20
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout exam paper: %w", err)
	}
	return pdf, nil
}

// paperLayout tracks a top-down cursor over the current page.
type paperLayout struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
	y      float64

	style string
	size  float64
}

func (l *paperLayout) contentWidth() float64 {
	return l.width - 2*paperMargin
}

func (l *paperLayout) setFont(style string, size float64) {
	l.style, l.size = style, size
	l.pdf.SetFont(paperFont, style, size)
}

func (l *paperLayout) measure(s string) float64 {
	return l.pdf.GetStringWidth(l.tr(s))
}

func (l *paperLayout) text(x float64, s string) {
	l.pdf.Text(x, l.y, l.tr(s))
}

func (l *paperLayout) textRight(right float64, s string) {
	l.pdf.Text(right-l.measure(s), l.y, l.tr(s))
}

func (l *paperLayout) textCentered(s string) {
	l.pdf.Text((l.width-l.measure(s))/2, l.y, l.tr(s))
}

func (l *paperLayout) border() {
	l.pdf.SetLineWidth(1)
	l.pdf.Rect(paperMargin, paperMargin, l.contentWidth(), l.height-2*paperMargin, "D")
}

// breakIfNeeded starts a new page when fewer than required points remain
// above the bottom margin.
func (l *paperLayout) breakIfNeeded(required float64) {
	if l.y <= l.height-paperMargin-required {
		return
	}
	style, size := l.style, l.size

	l.pdf.AddPage()
	l.border()
	l.setFont("", 9)
	l.y = paperMargin + 15
	l.textRight(l.width-paperMargin-10, "(Page Cont.)")

	l.setFont(style, size)
	l.y = paperMargin + 30
}

func (l *paperLayout) wrapped(text string, x, maxWidth, size float64) {
	l.setFont("", size)
	lines := WrapText(text, maxWidth, l.measure)
	for i, line := range lines {
		l.text(x, line)
		l.y += paperLineHeight
		if i < len(lines)-1 {
			l.breakIfNeeded(50)
		}
	}
	l.breakIfNeeded(10)
}

func (l *paperLayout) header(p Paper) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = fmt.Sprintf("Subject ID %d", p.ExamID)
	}
	right := l.width - paperMargin - 10

	l.setFont("", 10)
	l.text(paperMargin+10, "TED (21)-1001 (Rev. 2021)")
	l.textRight(right, "Reg. No. _______________")
	l.y += 15
	l.textRight(right, "Signature _______________")
	l.y += 20

	l.setFont("B", 14)
	l.textCentered("DIPLOMA EXAMINATION IN ENGINEERING/TECHNOLOGY")
	l.y += 20
	l.setFont("B", 16)
	l.textCentered("EXAM PAPER - " + strings.ToUpper(title))
	l.y += 20

	l.setFont("", 10)
	l.text(paperMargin+10, "[Time: 3 Hours]")
	l.textRight(right, fmt.Sprintf("(Maximum Marks: %d)", p.PaperPoints()))

	l.y += 10
	l.pdf.SetLineWidth(0.5)
	l.pdf.Line(paperMargin, l.y, l.width-paperMargin, l.y)
	l.y += 20
}

func (l *paperLayout) partHeading(part, instruction string) {
	l.setFont("B", 12)
	l.textCentered(part)
	l.y += 20
	l.wrapped(instruction, paperMargin+10, l.contentWidth(), paperFontSize)
	l.y += 10
}

func (l *paperLayout) options(options []string) {
	if len(options) == 0 {
		return
	}
	x := paperMargin + 40
	maxWidth := l.contentWidth() - 50

	l.setFont("", 10)
	inline := strings.Join(options, "    ")
	if l.measure(inline) < l.contentWidth()-40 {
		l.wrapped(inline, x, maxWidth, 10)
		return
	}
	for _, opt := range options {
		l.wrapped("- "+opt, x, maxWidth, 10)
	}
}
