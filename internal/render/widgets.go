package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lnkday/page-engine/internal/page"
)

// The interactive blocks below ship their own behavior inline so a rendered
// document works with no external script present.

func compileCarousel(b page.Block, _ page.Theme) string {
	slides := contentList(b.Content, "images")
	if len(slides) == 0 {
		return wrap(b, "")
	}

	autoPlay := contentBool(b.Content, "autoPlay", false)
	interval := contentFloat(b.Content, "interval", 5000)
	showDots := contentBool(b.Content, "showDots", true)
	showArrows := contentBool(b.Content, "showArrows", true)

	domID := "pe-carousel-" + b.ID

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="pe-carousel" id="%s">`, esc(domID)))
	for i, slide := range slides {
		url, _ := slide["url"].(string)
		alt, _ := slide["alt"].(string)
		active := ""
		if i == 0 {
			active = " is-active"
		}
		img := fmt.Sprintf(`<img src="%s" alt="%s" loading="lazy">`, esc(url), esc(alt))
		if link, _ := slide["link"].(string); link != "" {
			img = fmt.Sprintf(`<a href="%s" data-pe-click="%s">%s</a>`, esc(link), esc(b.ID), img)
		}
		sb.WriteString(fmt.Sprintf(`<div class="pe-carousel-slide%s">%s</div>`, active, img))
	}
	if showArrows && len(slides) > 1 {
		sb.WriteString(`<button class="pe-carousel-arrow pe-carousel-prev" type="button" aria-label="Previous">&#8249;</button>`)
		sb.WriteString(`<button class="pe-carousel-arrow pe-carousel-next" type="button" aria-label="Next">&#8250;</button>`)
	}
	if showDots && len(slides) > 1 {
		sb.WriteString(`<div class="pe-carousel-dots">`)
		for i := range slides {
			sb.WriteString(fmt.Sprintf(`<button class="pe-carousel-dot" type="button" data-slide="%d" aria-label="Slide %d"></button>`, i, i+1))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)

	// Index advances wrap modulo the slide count in both directions.
	sb.WriteString(fmt.Sprintf(`<script>(function(){
var root=document.getElementById(%s);if(!root)return;
var slides=root.querySelectorAll('.pe-carousel-slide');
var dots=root.querySelectorAll('.pe-carousel-dot');
var idx=0,n=slides.length;
function show(i){idx=((i%%n)+n)%%n;
for(var j=0;j<n;j++){slides[j].classList.toggle('is-active',j===idx);}
for(var j=0;j<dots.length;j++){dots[j].classList.toggle('is-active',j===idx);}}
var prev=root.querySelector('.pe-carousel-prev');if(prev)prev.addEventListener('click',function(){show(idx-1);});
var next=root.querySelector('.pe-carousel-next');if(next)next.addEventListener('click',function(){show(idx+1);});
for(var j=0;j<dots.length;j++){(function(k){dots[k].addEventListener('click',function(){show(k);});})(j);}
%sshow(0);})();</script>`, jsString(domID), autoPlayStmt(autoPlay, interval)))

	return wrap(b, sb.String())
}

func autoPlayStmt(autoPlay bool, interval float64) string {
	if !autoPlay {
		return ""
	}
	if interval <= 0 {
		interval = 5000
	}
	return fmt.Sprintf("setInterval(function(){show(idx+1);},%.0f);\n", interval)
}

func compileCountdown(b page.Block, _ page.Theme) string {
	// The target arrives as either a date string or an epoch-milliseconds
	// number; the script below handles both forms.
	target := contentScalar(b.Content, "targetDate")
	if target == "" {
		return wrap(b, "")
	}

	expired := contentString(b.Content, "expiredMessage")
	if expired == "" {
		expired = "This offer has ended"
	}

	units := []struct {
		key   string
		label string
	}{
		{"showDays", "Days"},
		{"showHours", "Hours"},
		{"showMinutes", "Minutes"},
		{"showSeconds", "Seconds"},
	}

	domID := "pe-countdown-" + b.ID

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="pe-countdown" id="%s" data-target="%s">`, esc(domID), esc(target)))
	for _, u := range units {
		if !contentBool(b.Content, u.key, true) {
			continue
		}
		sb.WriteString(fmt.Sprintf(
			`<div class="pe-countdown-unit"><span class="pe-countdown-value" data-unit="%s">0</span><span class="pe-countdown-label">%s</span></div>`,
			strings.ToLower(u.label), u.label))
	}
	sb.WriteString(`</div>`)

	// Counts down to the target and swaps in the expired message exactly
	// once; the displayed remainder never goes negative.
	sb.WriteString(fmt.Sprintf(`<script>(function(){
var root=document.getElementById(%s);if(!root)return;
var raw=root.getAttribute('data-target');
var target=/^\d+$/.test(raw)?parseInt(raw,10):new Date(raw).getTime();
if(isNaN(target))return;
var done=false;
function pad(v){return v<10?'0'+v:''+v;}
function set(unit,v){var el=root.querySelector('[data-unit="'+unit+'"]');if(el)el.textContent=pad(v);}
function tick(){
var diff=target-Date.now();
if(diff<=0){if(!done){done=true;root.innerHTML='<p class="pe-countdown-expired">'+%s+'</p>';clearInterval(timer);}return;}
var s=Math.floor(diff/1000);
set('days',Math.floor(s/86400));set('hours',Math.floor(s%%86400/3600));
set('minutes',Math.floor(s%%3600/60));set('seconds',s%%60);}
var timer=setInterval(tick,1000);tick();})();</script>`, jsString(domID), jsString(expired)))

	return wrap(b, sb.String())
}

func compileSubscribe(b page.Block, _ page.Theme) string {
	endpoint := contentString(b.Content, "endpoint")
	if endpoint == "" {
		return wrap(b, `<div class="pe-placeholder">Subscribe form not configured</div>`)
	}

	title := contentString(b.Content, "title")
	buttonLabel := contentString(b.Content, "buttonLabel")
	if buttonLabel == "" {
		buttonLabel = "Subscribe"
	}
	successMsg := contentString(b.Content, "successMessage")
	if successMsg == "" {
		successMsg = "Thanks for subscribing!"
	}
	errorMsg := contentString(b.Content, "errorMessage")
	if errorMsg == "" {
		errorMsg = "Something went wrong. Please try again."
	}

	domID := "pe-subscribe-" + b.ID

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="pe-subscribe" id="%s">`, esc(domID)))
	if title != "" {
		sb.WriteString(fmt.Sprintf(`<h3 class="pe-subscribe-title">%s</h3>`, esc(title)))
	}
	sb.WriteString(`<form class="pe-subscribe-form">`)
	if contentBool(b.Content, "collectName", false) {
		sb.WriteString(`<input type="text" name="name" placeholder="Your name">`)
	}
	sb.WriteString(`<input type="email" name="email" placeholder="Your email" required>`)
	if contentBool(b.Content, "collectPhone", false) {
		sb.WriteString(`<input type="tel" name="phone" placeholder="Your phone">`)
	}
	sb.WriteString(fmt.Sprintf(`<button class="pe-button" type="submit">%s</button>`, esc(buttonLabel)))
	sb.WriteString(`</form>`)
	sb.WriteString(`<p class="pe-subscribe-error" hidden></p>`)
	sb.WriteString(`</div>`)

	// Submits in place: the form is replaced by the success message on 2xx,
	// the error line is revealed otherwise. No navigation either way.
	sb.WriteString(fmt.Sprintf(`<script>(function(){
var root=document.getElementById(%s);if(!root)return;
var form=root.querySelector('form');
var errEl=root.querySelector('.pe-subscribe-error');
form.addEventListener('submit',function(ev){
ev.preventDefault();
var payload={};
new FormData(form).forEach(function(v,k){payload[k]=v;});
fetch(%s,{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify(payload)})
.then(function(res){
if(res.ok){form.outerHTML='<p class="pe-subscribe-success">'+%s+'</p>';}
else{errEl.textContent=%s;errEl.hidden=false;}})
.catch(function(){errEl.textContent=%s;errEl.hidden=false;});});})();</script>`,
		jsString(domID), jsString(endpoint), jsString(successMsg), jsString(errorMsg), jsString(errorMsg)))

	return wrap(b, sb.String())
}

// jsString encodes a value as a JavaScript string literal.
func jsString(s string) string {
	out, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(out)
}
