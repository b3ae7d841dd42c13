package pptx

import (
	"bytes"
	"fmt"
)

// themePart maps the deck's color scheme onto the OOXML theme so viewers
// that resolve scheme colors pick up the same palette the shapes use.
func (b *builder) themePart() []byte {
	colors := b.deck.Theme.Colors
	face := b.deck.Theme.FontFace

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Podium">`)
	buf.WriteString(`<a:themeElements>`)
	buf.WriteString(`<a:clrScheme name="Podium">`)
	buf.WriteString(`<a:dk1><a:srgbClr val="` + colors.Text + `"/></a:dk1>`)
	buf.WriteString(`<a:lt1><a:srgbClr val="` + colors.Background + `"/></a:lt1>`)
	buf.WriteString(`<a:dk2><a:srgbClr val="` + colors.Primary + `"/></a:dk2>`)
	buf.WriteString(`<a:lt2><a:srgbClr val="` + colors.LightGray + `"/></a:lt2>`)
	buf.WriteString(`<a:accent1><a:srgbClr val="` + colors.Primary + `"/></a:accent1>`)
	buf.WriteString(`<a:accent2><a:srgbClr val="` + colors.Secondary + `"/></a:accent2>`)
	buf.WriteString(`<a:accent3><a:srgbClr val="` + colors.Accent + `"/></a:accent3>`)
	buf.WriteString(`<a:accent4><a:srgbClr val="` + colors.Secondary + `"/></a:accent4>`)
	buf.WriteString(`<a:accent5><a:srgbClr val="` + colors.Accent + `"/></a:accent5>`)
	buf.WriteString(`<a:accent6><a:srgbClr val="` + colors.Primary + `"/></a:accent6>`)
	buf.WriteString(`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>`)
	buf.WriteString(`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>`)
	buf.WriteString(`</a:clrScheme>`)
	fmt.Fprintf(&buf, `<a:fontScheme name="Podium"><a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont><a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>`, face, face)
	buf.WriteString(`<a:fmtScheme name="Office">`)
	buf.WriteString(`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>`)
	buf.WriteString(`<a:lnStyleLst><a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>`)
	buf.WriteString(`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>`)
	buf.WriteString(`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>`)
	buf.WriteString(`</a:fmtScheme>`)
	buf.WriteString(`</a:themeElements>`)
	buf.WriteString(`</a:theme>`)
	return buf.Bytes()
}

func slideMaster() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	buf.WriteString(`<p:cSld><p:bg><p:bgPr><a:solidFill><a:schemeClr val="lt1"/></a:solidFill><a:effectLst/></p:bgPr></p:bg><p:spTree>`)
	buf.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	buf.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	buf.WriteString(`</p:spTree></p:cSld>`)
	buf.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	buf.WriteString(`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>`)
	buf.WriteString(`</p:sldMaster>`)
	return buf.Bytes()
}

func slideMasterRels() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	buf.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	buf.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>`)
	buf.WriteString(`</Relationships>`)
	return buf.Bytes()
}

func slideLayout() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank">`)
	buf.WriteString(`<p:cSld name="Blank"><p:spTree>`)
	buf.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	buf.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	buf.WriteString(`</p:spTree></p:cSld>`)
	buf.WriteString(`<p:clrMapOvr><a:overrideClrMapping bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/></p:clrMapOvr>`)
	buf.WriteString(`</p:sldLayout>`)
	return buf.Bytes()
}

func slideLayoutRels() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	buf.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>`)
	buf.WriteString(`</Relationships>`)
	return buf.Bytes()
}

func notesMaster() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<p:notesMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	buf.WriteString(`<p:cSld><p:spTree>`)
	buf.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	buf.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	buf.WriteString(`</p:spTree></p:cSld>`)
	buf.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	buf.WriteString(`</p:notesMaster>`)
	return buf.Bytes()
}

func notesMasterRels() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	buf.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>`)
	buf.WriteString(`</Relationships>`)
	return buf.Bytes()
}
